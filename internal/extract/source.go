package extract

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"Certus/internal/loads"
	"Certus/internal/mapping"
)

// Source hands the margin pipeline already-extracted solver results for one
// component id. Implementations never fail a call outright: an absent id is
// substituted with the first available one, an absent load case becomes an
// error-marker record.
type Source interface {
	PanelForces(id int, loadCases []int) map[int]loads.Record
	JointLoads(id int, loadCases []int) map[int]loads.Record
}

// Dataset is a pre-extracted result file: per-element shell forces and
// per-node interface loads, keyed by solver id then load case. It is what
// the upstream OP2 extraction tool writes out.
type Dataset struct {
	Shells     map[int]map[int]loads.Record `json:"Shells"`
	GridPoints map[int]map[int]loads.Record `json:"GridPoints"`
}

func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return &d, nil
}

func (d *Dataset) PanelForces(id int, loadCases []int) map[int]loads.Record {
	return fromTable(d.Shells, id, loadCases, "shell force")
}

func (d *Dataset) JointLoads(id int, loadCases []int) map[int]loads.Record {
	return fromTable(d.GridPoints, id, loadCases, "grid point force")
}

func fromTable(table map[int]map[int]loads.Record, id int, loadCases []int, kind string) map[int]loads.Record {
	out := make(map[int]loads.Record, len(loadCases))
	if len(table) == 0 {
		for _, lc := range loadCases {
			out[lc] = loads.MarkerRecord(fmt.Sprintf("No %s results in dataset", kind))
		}
		return out
	}

	if _, ok := table[id]; !ok {
		// Map iteration is randomized; "first available" means the
		// numerically smallest id so reruns stay deterministic.
		fallback := 0
		for candidate := range table {
			if fallback == 0 || candidate < fallback {
				fallback = candidate
			}
		}
		log.Printf("extract: %s id %d not in dataset, substituting %d", kind, id, fallback)
		id = fallback
	}

	rows := table[id]
	for _, lc := range loadCases {
		rec, ok := rows[lc]
		if !ok {
			out[lc] = loads.MarkerRecord("Load Case missing")
			continue
		}
		out[lc] = rec
	}
	return out
}

// BuildSet pulls every mapped component out of the source. Multi-id mapping
// entries (mesh-collector ranges) are represented by their first id.
func BuildSet(src Source, m mapping.Map, loadCases []int) loads.Set {
	set := loads.Set{
		Elements:   map[string]map[int]loads.Record{},
		Freebodies: map[string]map[int]loads.Record{},
	}
	for name, entry := range m {
		if len(entry.IDs) == 0 {
			continue
		}
		id := entry.IDs[0]
		switch entry.Type {
		case "freebody":
			set.Freebodies[name] = src.JointLoads(id, loadCases)
		default:
			set.Elements[name] = src.PanelForces(id, loadCases)
		}
	}
	return set
}
