package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pinmap-tracker/internal/model"
)

// ------------------- Snapshot -------------------

// snapshotSuffix names the dated copies in the history directory:
// <YYYY-MM-DD>_countries.json.
const snapshotSuffix = "_countries.json"

// MarshalSnapshot serializes records deterministically: object keys sorted
// lexicographically (json.Marshal's map behavior), 4-space indent, trailing
// newline. Pretty printed because it diffs better in git.
func MarshalSnapshot(records []model.GenericRecord) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteSnapshot writes the fetched records to the canonical path, overwriting
// any previous snapshot, then copies the same bytes into the history
// directory under today's date. A history file for the same date is silently
// overwritten: last fetch of the day wins.
func WriteSnapshot(records []model.GenericRecord, spec model.RunSpec, now time.Time) (string, error) {
	data, err := MarshalSnapshot(records)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(spec.CanonicalPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write canonical snapshot: %w", err)
	}
	fmt.Printf("💾 Snapshot written: %s (%d records)\n", spec.CanonicalPath, len(records))

	if err := os.MkdirAll(spec.HistoryDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	historyPath := filepath.Join(spec.HistoryDir, now.Format("2006-01-02")+snapshotSuffix)
	if err := os.WriteFile(historyPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history snapshot: %w", err)
	}
	fmt.Printf("💾 History snapshot written: %s\n", historyPath)

	return historyPath, nil
}
