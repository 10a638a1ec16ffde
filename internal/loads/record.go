package loads

import (
	"encoding/json"
	"fmt"
)

// PanelForces are membrane running loads for a shell element, in N/mm.
type PanelForces struct {
	Fx  float64 `json:"Fx_Nmm"`
	Fy  float64 `json:"Fy_Nmm"`
	Fxy float64 `json:"Fxy_Nmm"`
}

// JointLoads are resultant interface forces and moments at a grid point,
// in N and Nmm.
type JointLoads struct {
	Fx float64 `json:"Fx"`
	Fy float64 `json:"Fy"`
	Fz float64 `json:"Fz"`
	Mx float64 `json:"Mx"`
	My float64 `json:"My"`
	Mz float64 `json:"Mz"`
}

// Record holds one load case's extracted data for one component. Exactly one
// of Panel, Joint or Marker is set. A marker is an extraction error string
// ("Load Case missing" and the like); it skips the load case downstream
// instead of failing the run.
type Record struct {
	Panel  *PanelForces
	Joint  *JointLoads
	Marker string
}

// Set is a full set of extracted inputs for one analysis run, keyed by
// component name within the two archetype buckets.
type Set struct {
	Elements   map[string]map[int]Record `json:"Elements"`
	Freebodies map[string]map[int]Record `json:"Freebodies"`
}

func PanelRecord(fx, fy, fxy float64) Record {
	return Record{Panel: &PanelForces{Fx: fx, Fy: fy, Fxy: fxy}}
}

func JointRecord(fx, fy, fz, mx, my, mz float64) Record {
	return Record{Joint: &JointLoads{Fx: fx, Fy: fy, Fz: fz, Mx: mx, My: my, Mz: mz}}
}

func MarkerRecord(reason string) Record {
	return Record{Marker: reason}
}

// Numeric reports whether the record carries usable load values.
func (r Record) Numeric() bool {
	return r.Marker == "" && (r.Panel != nil || r.Joint != nil)
}

func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Marker != "":
		return json.Marshal(r.Marker)
	case r.Panel != nil:
		return json.Marshal(r.Panel)
	case r.Joint != nil:
		return json.Marshal(r.Joint)
	}
	return nil, fmt.Errorf("empty load record")
}

// UnmarshalJSON accepts either a numeric load object or a bare string error
// marker, which is how the extraction layer reports missing load cases.
func (r *Record) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		*r = Record{Marker: marker}
		return nil
	}

	var fields map[string]float64
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	if _, ok := fields["Fx_Nmm"]; ok {
		*r = PanelRecord(fields["Fx_Nmm"], fields["Fy_Nmm"], fields["Fxy_Nmm"])
		return nil
	}
	*r = JointRecord(fields["Fx"], fields["Fy"], fields["Fz"],
		fields["Mx"], fields["My"], fields["Mz"])
	return nil
}
