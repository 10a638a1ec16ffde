package margin

import (
	"encoding/json"
	"fmt"
)

// Result is one certified margin verdict for one load case.
type Result struct {
	LoadCase    int     `json:"Load_Case"`
	Method      string  `json:"Method"`
	AppliedLoad float64 `json:"Applied_Load"`
	Allowable   float64 `json:"Allowable"`
	RF          float64 `json:"RF"`
	FailureMode string  `json:"Failure_Mode"`
	Status      string  `json:"Status"`
}

// ComponentResults holds one component's verdicts keyed by load case, or a
// single error entry when the backend could not process the component at
// all. On the wire an errored component is `{"Error": reason}` so the report
// layer can render it next to healthy siblings.
type ComponentResults struct {
	Cases map[int]Result
	Err   string
}

func CasesFor(cases map[int]Result) ComponentResults {
	return ComponentResults{Cases: cases}
}

func ErrorFor(reason string) ComponentResults {
	return ComponentResults{Err: reason}
}

// Worst returns the governing (lowest RF) result across load cases.
func (c ComponentResults) Worst() (Result, bool) {
	var worst Result
	found := false
	for _, res := range c.Cases {
		if !found || res.RF < worst.RF {
			worst = res
			found = true
		}
	}
	return worst, found
}

func (c ComponentResults) MarshalJSON() ([]byte, error) {
	if c.Err != "" {
		return json.Marshal(map[string]string{"Error": c.Err})
	}
	return json.Marshal(c.Cases)
}

func (c *ComponentResults) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if raw, ok := probe["Error"]; ok && len(probe) == 1 {
		var reason string
		if err := json.Unmarshal(raw, &reason); err == nil {
			*c = ComponentResults{Err: reason}
			return nil
		}
	}
	var cases map[int]Result
	if err := json.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("component results: %w", err)
	}
	*c = ComponentResults{Cases: cases}
	return nil
}

// ResultSet is the full output of one analysis run, bucketed by archetype.
// This shape is the contract shared by both calculation backends and
// consumed as-is by the organizer and report layers.
type ResultSet struct {
	Elements   map[string]ComponentResults `json:"Elements"`
	Freebodies map[string]ComponentResults `json:"Freebodies"`
}

func NewResultSet() ResultSet {
	return ResultSet{
		Elements:   map[string]ComponentResults{},
		Freebodies: map[string]ComponentResults{},
	}
}
