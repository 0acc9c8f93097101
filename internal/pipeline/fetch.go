package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pinmap-tracker/internal/model"
)

// ------------------- Fetch -------------------

// FetchCountries performs one GET against the countries endpoint and decodes
// the body as a list of generic records. Any failure (transport error,
// non-200 status, malformed JSON) aborts the run before anything is written:
// a flaky API must not leave partial or garbage data on disk.
func FetchCountries(ctx context.Context, url string) ([]model.GenericRecord, error) {
	fmt.Printf("🌐 GET %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to retrieve data: status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var records []model.GenericRecord
	if err := json.Unmarshal(bodyBytes, &records); err != nil {
		return nil, fmt.Errorf("failed to decode countries JSON: %w", err)
	}

	fmt.Printf("🌐 Fetch done: %d country records\n", len(records))
	return records, nil
}
