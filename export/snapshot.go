// Package export serializes run results into compressed snapshots so
// they can be archived or shipped between services cheaply.
package export

import (
	"encoding/json"
	"os"

	"github.com/golang/snappy"

	"github.com/salesboard/analytics/engine"
)

// Encode renders a result as snappy-compressed JSON.
func Encode(result *engine.Result) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// Decode restores a result from a compressed snapshot.
func Decode(data []byte) (*engine.Result, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	var result engine.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WriteFile encodes a result and writes the snapshot to disk.
func WriteFile(path string, result *engine.Result) error {
	data, err := Encode(result)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile loads a snapshot from disk.
func ReadFile(path string) (*engine.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
