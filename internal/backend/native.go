package backend

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"Certus/internal/allowables"
	"Certus/internal/loads"
	"Certus/internal/margin"
)

// Native computes margins in-process with the pure margin engine. The engine
// functions are stateless, so components fan out across a small worker
// group; only the result maps are guarded.
type Native struct {
	Registry *allowables.Registry
}

func (n *Native) Compute(set loads.Set) (margin.ResultSet, error) {
	out := margin.NewResultSet()
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(4)

	for name, records := range set.Elements {
		name, records := name, records
		g.Go(func() error {
			cfg, err := n.Registry.Resolve(name, "panel")
			if err != nil {
				return err
			}
			cases := margin.PanelMargins(records, cfg)
			mu.Lock()
			out.Elements[name] = margin.CasesFor(cases)
			mu.Unlock()
			return nil
		})
	}
	for name, records := range set.Freebodies {
		name, records := name, records
		g.Go(func() error {
			cfg, err := n.Registry.Resolve(name, "freebody")
			if err != nil {
				return err
			}
			cases := margin.JointMargins(records, cfg)
			mu.Lock()
			out.Freebodies[name] = margin.CasesFor(cases)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return margin.ResultSet{}, err
	}
	return out, nil
}
