package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"pinmap-tracker/internal/model"
	"pinmap-tracker/internal/pipeline"
	"pinmap-tracker/internal/store"
)

// runSpec is the spec used for API-triggered runs. Defaults to the fixed
// daily-run configuration; the server may rebase paths at startup.
var runSpec = model.DefaultRunSpec()

// Configure replaces the spec used for API-triggered runs.
func Configure(spec model.RunSpec) {
	runSpec = spec
}

// CreateRun starts a new tracker run
// @Summary Start a tracker run
// @Description Fetch the latest country snapshot and rebuild history. The body may override the default run spec; an empty body uses the defaults.
// @Tags runs
// @Accept json
// @Produce json
// @Param spec body model.RunSpec false "Run spec overrides"
// @Success 200 {object} map[string]interface{} "Run started"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	spec := runSpec
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &spec); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go func() {
		// Run records its own failure in the store.
		if err := pipeline.Run(context.Background(), runID, spec); err != nil {
			fmt.Printf("❌ Run %s failed: %v\n", runID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Run started",
		"runID":     runID,
		"status":    model.StatusPending,
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListRuns retrieves all tracker runs
// @Summary List runs
// @Description Get all tracker runs with their current status, newest first
// @Tags runs
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves a specific tracker run
// @Summary Get run
// @Description Retrieve spec, status, and stage results of a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunErrors retrieves errors recorded for a run
// @Summary Get run errors
// @Description Retrieve all errors that occurred during a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	runErrors, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": runErrors,
		"count":  len(runErrors),
	})
}

// GetLatestSnapshot serves the canonical snapshot file
// @Summary Latest snapshot
// @Description The most recently fetched country snapshot, as stored on disk
// @Tags countries
// @Produce json
// @Success 200 {array} map[string]interface{} "Country records"
// @Failure 404 {object} map[string]interface{} "No snapshot yet"
// @Router /countries/latest [get]
func GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(runSpec.CanonicalPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "No snapshot yet", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetHistory serves the aggregated history table
// @Summary Country history
// @Description The full history table rebuilt from all stored snapshots, sorted by date then country
// @Tags countries
// @Produce json
// @Success 200 {object} map[string]interface{} "History rows"
// @Failure 500 {object} map[string]interface{} "Aggregation failed"
// @Router /countries/history [get]
func GetHistory(w http.ResponseWriter, r *http.Request) {
	table, err := pipeline.LoadHistory(runSpec.HistoryDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rows":  table,
		"count": len(table),
	})
}

// runIDFromPath extracts the run ID between the runs prefix and an optional
// suffix such as /errors.
func runIDFromPath(path, suffix string) (string, bool) {
	prefix := "/api/v1/runs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	runID := path[len(prefix) : len(path)-len(suffix)]
	return runID, runID != ""
}
