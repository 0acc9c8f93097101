package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"pinmap-tracker/internal/model"
	"pinmap-tracker/internal/pipeline"
	"pinmap-tracker/internal/store"
)

// One-shot daily run: fetch today's snapshot, rebuild the history CSV, and
// redraw the top-10 chart. An optional argument names a run-spec JSON file
// overriding the built-in defaults.
func main() {
	spec := model.DefaultRunSpec()
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read run spec: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &spec); err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse run spec: %v\n", err)
			os.Exit(1)
		}
	}

	if err := store.InitDB("tracker.db"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open tracking db: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save run: %v\n", err)
		os.Exit(1)
	}

	if err := pipeline.Run(context.Background(), runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "run %s failed: %v\n", runID, err)
		os.Exit(1)
	}
}
