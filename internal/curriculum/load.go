package curriculum

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// loadFile is the JSON document shape for curriculum bulk import.
type loadFile struct {
	Version int    `json:"version"`
	Areas   []Area `json:"areas"`
}

// Load reads a curriculum from JSON and builds a validated Graph.
// The document shape is {"version": 1, "areas": [...]}; a bare JSON array of
// areas is also accepted for convenience.
func Load(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}

	var doc loadFile
	if err := json.Unmarshal(data, &doc); err != nil {
		var areas []Area
		if arrErr := json.Unmarshal(data, &areas); arrErr != nil {
			return nil, fmt.Errorf("parse curriculum: %w", err)
		}
		doc.Areas = areas
	}

	if len(doc.Areas) == 0 {
		return nil, fmt.Errorf("curriculum contains no areas")
	}

	return New(doc.Areas)
}

// LoadFile reads a curriculum JSON file and builds a validated Graph.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curriculum file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
