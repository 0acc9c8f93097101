package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinmap-tracker/internal/model"
	"pinmap-tracker/internal/store"
)

func initTestStore(t *testing.T) {
	t.Helper()
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "tracker.db")))
}

func TestRunEndToEnd(t *testing.T) {
	initTestStore(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"country": "United States", "location_count": 5000},
			{"country": "Sweden", "location_count": 300},
			{"country": "Austria", "location_count": 120}
		]`))
	}))
	defer srv.Close()

	spec := testSpec(t)
	spec.SourceURL = srv.URL

	runID := uuid.New().String()
	require.NoError(t, store.SaveRun(runID, spec))
	require.NoError(t, Run(context.Background(), runID, spec))

	for _, path := range []string{spec.CanonicalPath, spec.HistoryCSVPath, spec.ChartPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, run["status"])
	stages := run["stages"].([]model.StageResult)
	assert.Len(t, stages, 5)
	assert.Equal(t, "fetch", stages[0].Stage)
	assert.Equal(t, 3, stages[0].RowCount)
}

func TestRunFetchFailureLeavesCanonicalUntouched(t *testing.T) {
	initTestStore(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	spec := testSpec(t)
	spec.SourceURL = srv.URL

	prior := []byte("prior snapshot content\n")
	require.NoError(t, os.WriteFile(spec.CanonicalPath, prior, 0644))

	runID := uuid.New().String()
	require.NoError(t, store.SaveRun(runID, spec))
	err := Run(context.Background(), runID, spec)
	require.Error(t, err)

	// The failed fetch aborts the run before any file is modified.
	data, readErr := os.ReadFile(spec.CanonicalPath)
	require.NoError(t, readErr)
	assert.Equal(t, prior, data)
	_, statErr := os.Stat(spec.HistoryDir)
	assert.True(t, os.IsNotExist(statErr))

	run, getErr := store.GetRun(runID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusFailed, run["status"])

	runErrors, getErr := store.GetRunErrors(runID)
	require.NoError(t, getErr)
	require.NotEmpty(t, runErrors)
	assert.Contains(t, runErrors[0]["message"], "fetch stage")
}
