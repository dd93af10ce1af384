// Package bench reads per-method benchmark result files.
//
// Each result file is a single JSON object carrying at least the keys
// precision, recall, FN, FP, TP-call and f1. The method a file belongs to is
// taken from its directory, see MethodLabel.
package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when a result file cannot be opened.
	ErrNotFound = errors.New("result file not found")

	// ErrMalformedJSON is returned when a result file is not a JSON object
	// with correctly typed metric fields.
	ErrMalformedJSON = errors.New("malformed result JSON")

	// ErrMissingField is returned when a required metric key is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrMalformedPath is returned when no method label can be derived from a path.
	ErrMalformedPath = errors.New("malformed result path")
)

// rawRecord mirrors the on-disk layout. Pointers distinguish absent keys
// from zero values.
type rawRecord struct {
	Precision *float64 `json:"precision"`
	Recall    *float64 `json:"recall"`
	FN        *int64   `json:"FN"`
	FP        *int64   `json:"FP"`
	TPCall    *int64   `json:"TP-call"`
	F1        *float64 `json:"f1"`
}

// missing returns the required keys absent from r, in column order.
func (r *rawRecord) missing() []string {
	var keys []string
	if r.Precision == nil {
		keys = append(keys, "precision")
	}
	if r.Recall == nil {
		keys = append(keys, "recall")
	}
	if r.FN == nil {
		keys = append(keys, "FN")
	}
	if r.FP == nil {
		keys = append(keys, "FP")
	}
	if r.TPCall == nil {
		keys = append(keys, "TP-call")
	}
	if r.F1 == nil {
		keys = append(keys, "f1")
	}
	return keys
}

// ParseRecord decodes a single JSON object into a Record.
func ParseRecord(data []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if keys := raw.missing(); len(keys) > 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(keys, ", "))
	}

	return Record{
		Precision: *raw.Precision,
		Recall:    *raw.Recall,
		FN:        *raw.FN,
		FP:        *raw.FP,
		TPCall:    *raw.TPCall,
		F1:        *raw.F1,
	}, nil
}

// LoadRecord reads and parses the result file at path.
func LoadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	rec, err := ParseRecord(data)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, nil
}

// Load reads every path in order and labels each record with its method.
// It stops at the first failure.
func Load(paths []string) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		method, err := MethodLabel(path)
		if err != nil {
			return nil, err
		}

		rec, err := LoadRecord(path)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			Path:   path,
			Method: method,
			Record: rec,
		})
	}
	return results, nil
}
