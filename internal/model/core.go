package model

import "time"

// GenericRecord is a schema-agnostic map for one fetched API record
type GenericRecord map[string]interface{}

// RunSpec defines the entire tracker run configuration
type RunSpec struct {
	SourceURL      string `json:"sourceUrl"`      // countries endpoint
	CanonicalPath  string `json:"canonicalPath"`  // latest snapshot, e.g. countries.json
	HistoryDir     string `json:"historyDir"`     // dated snapshot store
	HistoryCSVPath string `json:"historyCsvPath"` // long-form export
	ChartPath      string `json:"chartPath"`      // top-N chart, SVG
	TopN           int    `json:"topN"`
	RequestTimeout string `json:"requestTimeout"` // e.g., "30s"
}

// Fixed defaults; a normal daily run uses exactly these.
const (
	DefaultSourceURL      = "https://pinballmap.com/api/v1/locations/countries.json"
	DefaultCanonicalPath  = "countries.json"
	DefaultHistoryDir     = "json-history"
	DefaultHistoryCSVPath = "countries-history.csv"
	DefaultChartPath      = "top-10-countries.svg"
	DefaultTopN           = 10
)

// DefaultRunSpec returns the standard daily-run configuration.
func DefaultRunSpec() RunSpec {
	return RunSpec{
		SourceURL:      DefaultSourceURL,
		CanonicalPath:  DefaultCanonicalPath,
		HistoryDir:     DefaultHistoryDir,
		HistoryCSVPath: DefaultHistoryCSVPath,
		ChartPath:      DefaultChartPath,
		TopN:           DefaultTopN,
		RequestTimeout: "30s",
	}
}

// Run statuses as persisted to the tracking store.
const (
	StatusPending      = "pending"
	StatusFetching     = "fetching"
	StatusSnapshotting = "snapshotting"
	StatusAggregating  = "aggregating"
	StatusExporting    = "exporting"
	StatusCharting     = "charting"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
)

// StageResult records the outcome of a single pipeline stage.
type StageResult struct {
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	RowCount  int       `json:"row_count"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
