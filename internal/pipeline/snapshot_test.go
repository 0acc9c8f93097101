package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinmap-tracker/internal/model"
)

func testSpec(t *testing.T) model.RunSpec {
	t.Helper()
	dir := t.TempDir()
	spec := model.DefaultRunSpec()
	spec.CanonicalPath = filepath.Join(dir, "countries.json")
	spec.HistoryDir = filepath.Join(dir, "json-history")
	spec.HistoryCSVPath = filepath.Join(dir, "countries-history.csv")
	spec.ChartPath = filepath.Join(dir, "top-10-countries.svg")
	return spec
}

func TestWriteSnapshotDeterministic(t *testing.T) {
	spec := testSpec(t)
	records := []model.GenericRecord{
		{"location_count": float64(42), "country": "Norway", "zebra": "z", "apple": "a"},
	}
	now := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)

	_, err := WriteSnapshot(records, spec, now)
	require.NoError(t, err)
	first, err := os.ReadFile(spec.CanonicalPath)
	require.NoError(t, err)

	// Keys sorted, 4-space indent.
	assert.Contains(t, string(first), "\"apple\": \"a\"")
	assert.Less(t,
		strings.Index(string(first), "apple"),
		strings.Index(string(first), "zebra"))
	assert.Contains(t, string(first), "    {")

	// Second write of the same payload is byte-identical.
	_, err = WriteSnapshot(records, spec, now)
	require.NoError(t, err)
	second, err := os.ReadFile(spec.CanonicalPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteSnapshotHistoryCopy(t *testing.T) {
	spec := testSpec(t)
	records := []model.GenericRecord{
		{"country": "Sweden", "location_count": float64(300)},
	}
	now := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)

	historyPath, err := WriteSnapshot(records, spec, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(spec.HistoryDir, "2024-03-07_countries.json"), historyPath)

	canonical, err := os.ReadFile(spec.CanonicalPath)
	require.NoError(t, err)
	history, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Equal(t, canonical, history)
}

func TestWriteSnapshotSameDayOverwrites(t *testing.T) {
	spec := testSpec(t)
	now := time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC)

	_, err := WriteSnapshot([]model.GenericRecord{{"country": "Sweden", "location_count": float64(1)}}, spec, now)
	require.NoError(t, err)
	historyPath, err := WriteSnapshot([]model.GenericRecord{{"country": "Sweden", "location_count": float64(2)}}, spec, now)
	require.NoError(t, err)

	// Last fetch of the day wins; no versioning within a day.
	entries, err := os.ReadDir(spec.HistoryDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"location_count\": 2")
}
