package backend

import (
	"fmt"

	"Certus/internal/allowables"
	"Certus/internal/loads"
	"Certus/internal/margin"
)

// Engine turns one run's extracted loads into the shared result-set shape.
// Both implementations must emit structurally identical results so the
// organizer and report layers never learn which backend ran.
type Engine interface {
	Compute(set loads.Set) (margin.ResultSet, error)
}

// Select is the single place the calculation-method flag is branched on.
func Select(method string, reg *allowables.Registry, baseDir string) (Engine, error) {
	switch method {
	case "native", "":
		return &Native{Registry: reg}, nil
	case "excel":
		return &Excel{Registry: reg, BaseDir: baseDir}, nil
	}
	return nil, fmt.Errorf("unknown calculation method %q", method)
}
