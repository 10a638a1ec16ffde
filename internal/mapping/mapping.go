package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// Entry ties a named structural component to the solver ids backing it.
// Type selects the margin archetype: "panel" components are evaluated on
// membrane forces, "freebody" components on resultant interface loads.
type Entry struct {
	IDs  []int  `json:"ids"`
	Type string `json:"type"`
}

// Map is the component mapping produced by the geometry parser (or the
// built-in demonstration mapping).
type Map map[string]Entry

// Demo is the compiled-in mapping used when no mapping file exists, sized
// for the demonstration flap model.
func Demo() Map {
	return Map{
		"Upper_Skin_Panel":  {IDs: []int{12090}, Type: "panel"},
		"Front_Spar_Splice": {IDs: []int{2710102}, Type: "freebody"},
	}
}

func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("mapping %s: no components", path)
	}
	return m, nil
}

// LoadOrDemo substitutes the demonstration mapping when the file is absent;
// analysis must not abort just because no geometry was uploaded yet.
func LoadOrDemo(path string) Map {
	if path == "" {
		return Demo()
	}
	m, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("mapping %s not found, using built-in demo mapping", path)
		return Demo()
	}
	if err != nil {
		log.Printf("mapping %s unreadable (%v), using built-in demo mapping", path, err)
		return Demo()
	}
	return m
}

func (m Map) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
