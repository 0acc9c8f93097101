package utils

import (
	"os"
	"reflect"
	"time"
)

// ParseDuration safely parses duration strings like "30s", falling back to a
// sane default for empty or malformed input.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// Numeric safely converts supported types to float64. JSON decoding hands
// back float64 for all numbers, but projected values may also arrive as ints.
func Numeric(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float()
		}
		return 0
	}
}

// FileSize returns the size of a file in bytes.
func FileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
