package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"Certus/internal/backend"
	"Certus/internal/extract"
	"Certus/internal/mapping"
	"Certus/internal/margin"
	"Certus/internal/repo"

	"Certus/internal/allowables"
)

// DefaultLoadCases is the demo flight-loads envelope analyzed when a request
// does not name load cases.
var DefaultLoadCases = []int{1, 2, 3, 4, 5}

// Service runs the margin pipeline: mapped components are pulled from an
// extraction source, pushed through the selected calculation backend, and
// the verdicts persisted per run.
type Service struct {
	Registry    *allowables.Registry
	Mapping     mapping.Map
	WorkbookDir string
	ResultsDir  string
	Repo        repo.Repository // nil when running without a database
}

// Run is one completed analysis.
type Run struct {
	ID      string           `json:"run_id"`
	Method  string           `json:"method"`
	Results margin.ResultSet `json:"results"`
}

func (s *Service) Analyze(ctx context.Context, src extract.Source, method string, loadCases []int) (Run, error) {
	if len(loadCases) == 0 {
		loadCases = DefaultLoadCases
	}
	if method == "" {
		method = "native"
	}

	engine, err := backend.Select(method, s.Registry, s.WorkbookDir)
	if err != nil {
		return Run{}, err
	}

	set := extract.BuildSet(src, s.Mapping, loadCases)
	results, err := engine.Compute(set)
	if err != nil {
		return Run{}, fmt.Errorf("margin computation: %w", err)
	}

	run := Run{ID: uuid.NewString(), Method: method, Results: results}
	s.persist(ctx, run)
	return run, nil
}

// persist writes the run to the results directory and, when a database is
// configured, to the analysis_runs table. Persistence failures are logged
// and do not fail the analysis.
func (s *Service) persist(ctx context.Context, run Run) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		log.Printf("run %s: marshal: %v", run.ID, err)
		return
	}

	if s.ResultsDir != "" {
		path := filepath.Join(s.ResultsDir, "run-"+run.ID+".json")
		if err := os.MkdirAll(s.ResultsDir, 0o755); err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		if err != nil {
			log.Printf("run %s: write %s: %v", run.ID, path, err)
		}
	}

	if s.Repo != nil {
		resultsJSON, err := json.Marshal(run.Results)
		if err == nil {
			err = s.Repo.SaveRun(ctx, run.ID, run.Method, resultsJSON)
		}
		if err != nil {
			log.Printf("run %s: save to db: %v", run.ID, err)
		}
	}
}
