package allowables

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrConfigMissing indicates no allowable entry and no compiled-in default
// could be resolved for the requested archetype. This is the only terminal
// lookup failure; every other miss falls back to a default config.
var ErrConfigMissing = errors.New("no allowable config resolvable")

// Config is one allowable-registry entry: a component name pattern, the
// strength allowables per failure mode, and (for the Excel backend) the
// workbook coordinates to drive.
type Config struct {
	Pattern   string             `json:"pattern"`
	Strengths map[string]float64 `json:"strengths,omitempty"`

	// Excel driver coordinates. Driver selects the read-back variant:
	// "excel" reads one reserve factor per load case, "excel_summary"
	// reads a single aggregate reserve factor plus a critical-location
	// label applied to every load case.
	Driver       string            `json:"driver,omitempty"`
	Workbook     string            `json:"workbook,omitempty"`
	Sheet        string            `json:"sheet,omitempty"`
	InputCells   map[string]string `json:"input_cells,omitempty"`
	OutputCell   string            `json:"output_cell,omitempty"`
	LocationCell string            `json:"location_cell,omitempty"`
}

// Strength returns the allowable for a failure mode, or the given fallback
// when the mode is absent from the entry.
func (c Config) Strength(mode string, fallback float64) float64 {
	if v, ok := c.Strengths[mode]; ok {
		return v
	}
	return fallback
}

// Registry is an ordered list of allowable configs. Order is significant:
// pattern matching walks entries in declared order and the first match wins,
// so existing registry files keep their meaning (overlapping patterns are
// resolved by position, not specificity).
type Registry struct {
	entries []Config
}

func NewRegistry(entries ...Config) *Registry {
	return &Registry{entries: entries}
}

func (r *Registry) Entries() []Config {
	return r.entries
}

// Default is the compiled-in registry used when no registry file is
// configured or the file is absent. Values are certification allowables for
// the demonstration flap model, in N/mm for panels and N for joints.
func Default() *Registry {
	return NewRegistry(
		Config{Pattern: "Upper_Skin_Panel", Strengths: map[string]float64{"Shear": 150.0, "Compression": 150.0}},
		Config{Pattern: "Rib", Strengths: map[string]float64{"Shear": 250.0, "Compression": 250.0}},
		Config{Pattern: "Box", Strengths: map[string]float64{"Shear": 500.0, "Compression": 500.0}},
		Config{Pattern: "Front_Spar_Splice", Strengths: map[string]float64{"Shear": 50000.0, "Bearing": 75000.0}},
		Config{Pattern: "Clip", Strengths: map[string]float64{"Shear": 50000.0, "Bearing": 75000.0}},
		Config{Pattern: "Spar", Strengths: map[string]float64{"Shear": 50000.0, "Bearing": 75000.0}},
		Config{Pattern: "Default_Joint", Strengths: map[string]float64{"Shear": 25000.0}},
	)
}

// LoadFile reads a registry from an ordered JSON array.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Config
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return NewRegistry(entries...), nil
}

// LoadFileOrDefault falls back to the compiled-in registry when the file is
// absent. Only a present-but-unreadable file is an error.
func LoadFileOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	reg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Match resolves a component name to a registry entry. Exact pattern match
// is tried first, then a case-insensitive substring scan in declared order
// where the first matching pattern wins.
func (r *Registry) Match(name string) (Config, bool) {
	for _, e := range r.entries {
		if e.Pattern == name {
			return e, true
		}
	}
	lower := strings.ToLower(name)
	for _, e := range r.entries {
		if e.Pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e.Pattern)) {
			return e, true
		}
	}
	return Config{}, false
}

// Resolve matches a name and, when nothing matches, applies the archetype
// default: the Default_Joint entry for freebodies, a generic panel allowable
// for shell elements. ErrConfigMissing is returned only when no default
// exists for the archetype.
func (r *Registry) Resolve(name, archetype string) (Config, error) {
	if cfg, ok := r.Match(name); ok {
		return cfg, nil
	}
	switch archetype {
	case "panel":
		return Config{
			Pattern:   name,
			Strengths: map[string]float64{"Shear": 100.0, "Compression": 100.0},
		}, nil
	case "freebody":
		for _, e := range r.entries {
			if e.Pattern == "Default_Joint" {
				return e, nil
			}
		}
		return Config{
			Pattern:   name,
			Strengths: map[string]float64{"Shear": 25000.0},
		}, nil
	}
	return Config{}, fmt.Errorf("%w for archetype %q", ErrConfigMissing, archetype)
}
