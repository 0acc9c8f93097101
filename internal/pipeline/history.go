package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"pinmap-tracker/internal/model"
	"pinmap-tracker/pkg/utils"
)

// ------------------- History aggregation -------------------

// ParseSnapshotDate derives the capture date from a snapshot path. The date
// is the final path segment's prefix up to the first underscore, ISO 8601:
// json-history/2024-03-07_countries.json -> 2024-03-07.
func ParseSnapshotDate(path string) (time.Time, error) {
	base := filepath.Base(path)
	prefix, _, found := strings.Cut(base, "_")
	if !found {
		return time.Time{}, fmt.Errorf("snapshot filename %q has no date prefix", base)
	}
	date, err := time.Parse("2006-01-02", prefix)
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot filename %q has invalid date prefix: %w", base, err)
	}
	return date, nil
}

// loadSnapshotRows reads one stored snapshot and projects it to country and
// location_count. A row missing either field, or with a negative or
// non-integer count, fails the whole load; a bad historical file blocks CSV
// regeneration until it is removed or fixed.
func loadSnapshotRows(path string) ([]model.CountryCount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var records []model.GenericRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	rows := make([]model.CountryCount, 0, len(records))
	for i, rec := range records {
		country, ok := rec["country"].(string)
		if !ok {
			return nil, fmt.Errorf("snapshot %s record %d: missing country", path, i)
		}
		rawCount, ok := rec["location_count"]
		if !ok {
			return nil, fmt.Errorf("snapshot %s record %d: missing location_count", path, i)
		}
		switch rawCount.(type) {
		case float64, float32, int, int64:
			// ok
		default:
			return nil, fmt.Errorf("snapshot %s record %d: location_count must be numeric, got %T", path, i, rawCount)
		}
		count := utils.Numeric(rawCount)
		if count < 0 || count != float64(int(count)) {
			return nil, fmt.Errorf("snapshot %s record %d: invalid location_count %v", path, i, rawCount)
		}
		rows = append(rows, model.CountryCount{Country: country, LocationCount: int(count)})
	}
	return rows, nil
}

// LoadHistory rebuilds the full history table from every snapshot in the
// history directory. The table is always recomputed from scratch; the
// snapshot files are the sole source of truth. An empty or missing history
// directory is an error: aggregation needs at least one prior fetch.
func LoadHistory(historyDir string) (model.HistoryTable, error) {
	paths, err := filepath.Glob(filepath.Join(historyDir, "*"+snapshotSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list history directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no snapshots in %s: run a fetch first", historyDir)
	}

	var table model.HistoryTable
	for _, path := range paths {
		date, err := ParseSnapshotDate(path)
		if err != nil {
			return nil, err
		}
		rows, err := loadSnapshotRows(path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			table = append(table, model.HistoryRecord{
				Country:       row.Country,
				LocationCount: row.LocationCount,
				Date:          date,
			})
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if !table[i].Date.Equal(table[j].Date) {
			return table[i].Date.Before(table[j].Date)
		}
		return table[i].Country < table[j].Country
	})

	fmt.Printf("📊 History rebuilt: %d rows from %d snapshots\n", len(table), len(paths))
	return table, nil
}

// WriteHistoryCSV exports the history table with a header row and columns
// country, location_count, date. The table order is already deterministic, so
// repeated exports of unchanged history are byte-identical.
func WriteHistoryCSV(table model.HistoryTable, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create history CSV: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"country", "location_count", "date"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range table {
		record := []string{row.Country, strconv.Itoa(row.LocationCount), row.Date.Format("2006-01-02")}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush history CSV: %w", err)
	}

	fmt.Printf("💾 History CSV written: %s (%d rows)\n", path, len(table))
	return nil
}
