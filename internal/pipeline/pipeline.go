package pipeline

import (
	"context"
	"fmt"
	"time"

	"pinmap-tracker/internal/model"
	"pinmap-tracker/internal/store"
	"pinmap-tracker/pkg/utils"
)

// ------------------- Pipeline Runner -------------------

// Run executes one tracker run: fetch -> snapshot -> aggregate -> export ->
// chart. Stages are strictly sequential; each stage's output is the next
// stage's input. The first error aborts the run, and the failure is recorded
// in the tracking store. No retries anywhere.
func Run(ctx context.Context, runID string, spec model.RunSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting tracker run: %s\n", runID)

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, model.StatusFailed)
			store.SaveRunError(runID, err)
		}
	}()

	// --- FETCH STAGE ---
	// The network call is the only blocking operation; the timeout bounds it.
	store.UpdateRunStatus(runID, model.StatusFetching)
	stageStart := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.RequestTimeout))
	defer cancel()
	records, err := FetchCountries(fetchCtx, spec.SourceURL)
	if err != nil {
		return fmt.Errorf("fetch stage: %w", err)
	}
	store.SaveStageResult(runID, "fetch", len(records), stageStart, time.Now())

	// --- SNAPSHOT STAGE ---
	store.UpdateRunStatus(runID, model.StatusSnapshotting)
	stageStart = time.Now()
	historyPath, err := WriteSnapshot(records, spec, time.Now())
	if err != nil {
		return fmt.Errorf("snapshot stage: %w", err)
	}
	store.SaveStageResult(runID, "snapshot", len(records), stageStart, time.Now())
	fmt.Printf("💾 Snapshot stage complete: %s\n", historyPath)

	// --- AGGREGATION STAGE ---
	store.UpdateRunStatus(runID, model.StatusAggregating)
	stageStart = time.Now()
	table, err := LoadHistory(spec.HistoryDir)
	if err != nil {
		return fmt.Errorf("aggregation stage: %w", err)
	}
	store.SaveStageResult(runID, "aggregate", len(table), stageStart, time.Now())

	// --- EXPORT STAGE ---
	store.UpdateRunStatus(runID, model.StatusExporting)
	stageStart = time.Now()
	if err := WriteHistoryCSV(table, spec.HistoryCSVPath); err != nil {
		return fmt.Errorf("export stage: %w", err)
	}
	store.SaveStageResult(runID, "export", len(table), stageStart, time.Now())

	// --- CHART STAGE ---
	// Cosmetic, but it runs last and gets no special isolation: a chart
	// failure fails the run after all data artifacts are already on disk.
	store.UpdateRunStatus(runID, model.StatusCharting)
	stageStart = time.Now()
	if err := RenderChart(table, spec); err != nil {
		return fmt.Errorf("chart stage: %w", err)
	}
	store.SaveStageResult(runID, "chart", spec.TopN, stageStart, time.Now())

	store.UpdateRunStatus(runID, model.StatusCompleted)
	fmt.Printf("🏁 Tracker run %s completed in %v\n", runID, time.Since(start))
	return nil
}
