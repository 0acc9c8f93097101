package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinmap-tracker/internal/model"
)

func writeHistoryFile(t *testing.T, dir, date string, counts map[string]int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))

	var records []model.GenericRecord
	for country, count := range counts {
		records = append(records, model.GenericRecord{
			"country":        country,
			"location_count": count,
		})
	}
	data, err := MarshalSnapshot(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, date+"_countries.json"), data, 0644))
}

func TestParseSnapshotDate(t *testing.T) {
	date, err := ParseSnapshotDate("json-history/2024-03-07_countries.json")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), date)

	// Preceding path segments are irrelevant.
	date, err = ParseSnapshotDate("/var/lib/tracker/deep/json-history/2024-03-07_countries.json")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseSnapshotDate("json-history/countries.json")
	assert.Error(t, err)

	_, err = ParseSnapshotDate("json-history/not-a-date_countries.json")
	assert.Error(t, err)
}

func TestLoadHistorySortedByDateThenCountry(t *testing.T) {
	dir := t.TempDir()
	counts := map[string]int{"Sweden": 300, "Austria": 120, "Norway": 80}
	writeHistoryFile(t, dir, "2024-03-08", counts)
	writeHistoryFile(t, dir, "2024-03-07", counts)
	writeHistoryFile(t, dir, "2024-03-09", counts)

	table, err := LoadHistory(dir)
	require.NoError(t, err)
	require.Len(t, table, 9) // N snapshots x countries

	wantDates := []string{
		"2024-03-07", "2024-03-07", "2024-03-07",
		"2024-03-08", "2024-03-08", "2024-03-08",
		"2024-03-09", "2024-03-09", "2024-03-09",
	}
	wantCountries := []string{"Austria", "Norway", "Sweden"}
	for i, row := range table {
		assert.Equal(t, wantDates[i], row.Date.Format("2006-01-02"))
		assert.Equal(t, wantCountries[i%3], row.Country)
	}
}

func TestLoadHistoryEmptyDirFails(t *testing.T) {
	_, err := LoadHistory(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshots")
}

func TestLoadHistoryBadFileFails(t *testing.T) {
	dir := t.TempDir()
	writeHistoryFile(t, dir, "2024-03-07", map[string]int{"Sweden": 300})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-08_countries.json"), []byte("{broken"), 0644))

	// One bad historical file blocks the whole aggregation.
	_, err := LoadHistory(dir)
	require.Error(t, err)
}

func TestLoadHistoryRejectsBadRows(t *testing.T) {
	for name, payload := range map[string]string{
		"missing country":   `[{"location_count": 5}]`,
		"missing count":     `[{"country": "Sweden"}]`,
		"non-numeric count": `[{"country": "Sweden", "location_count": "many"}]`,
		"negative count":    `[{"country": "Sweden", "location_count": -1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(
				filepath.Join(dir, "2024-03-07_countries.json"), []byte(payload), 0644))
			_, err := LoadHistory(dir)
			assert.Error(t, err)
		})
	}
}

func TestWriteHistoryCSV(t *testing.T) {
	dir := t.TempDir()
	writeHistoryFile(t, dir, "2024-03-07", map[string]int{"Sweden": 300, "Austria": 120})
	writeHistoryFile(t, dir, "2024-03-08", map[string]int{"Sweden": 301, "Austria": 121})

	table, err := LoadHistory(dir)
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "countries-history.csv")
	require.NoError(t, WriteHistoryCSV(table, csvPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	want := "country,location_count,date\n" +
		"Austria,120,2024-03-07\n" +
		"Sweden,300,2024-03-07\n" +
		"Austria,121,2024-03-08\n" +
		"Sweden,301,2024-03-08\n"
	assert.Equal(t, want, string(data))
}

func TestWriteHistoryCSVIdempotent(t *testing.T) {
	dir := t.TempDir()
	for day := 1; day <= 4; day++ {
		writeHistoryFile(t, dir, fmt.Sprintf("2024-03-%02d", day),
			map[string]int{"Sweden": 300 + day, "Austria": 120, "Norway": day})
	}

	table, err := LoadHistory(dir)
	require.NoError(t, err)

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, WriteHistoryCSV(table, first))

	table2, err := LoadHistory(dir)
	require.NoError(t, err)
	require.NoError(t, WriteHistoryCSV(table2, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
