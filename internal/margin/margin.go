package margin

import (
	"math"

	"Certus/internal/allowables"
	"Certus/internal/loads"
)

// SentinelRF is reported when the applied load is effectively zero: no
// meaningful margin exists to compute, the component trivially passes.
const SentinelRF = 99.99

const nearZero = 1e-6

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"

	MethodNative = "Native"
	MethodExcel  = "Excel"
)

func statusFor(rf float64) string {
	if rf < 1.0 {
		return StatusFail
	}
	return StatusPass
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PanelMargins evaluates a shell element against its compression and shear
// allowables, one verdict per load case. The governing mode is whichever
// check yields the lower reserve factor. Load cases carrying extraction
// error markers are skipped.
func PanelMargins(records map[int]loads.Record, cfg allowables.Config) map[int]Result {
	allowComp := cfg.Strength("Compression", 100.0)
	allowShear := cfg.Strength("Shear", 100.0)

	results := make(map[int]Result, len(records))
	for lc, rec := range records {
		if !rec.Numeric() || rec.Panel == nil {
			continue
		}
		fx := math.Abs(rec.Panel.Fx)
		fxy := math.Abs(rec.Panel.Fxy)

		rfComp := SentinelRF
		if fx > nearZero {
			rfComp = allowComp / fx
		}
		rfShear := SentinelRF
		if fxy > nearZero {
			rfShear = allowShear / fxy
		}

		res := Result{LoadCase: lc, Method: MethodNative}
		if rfComp < rfShear {
			res.RF = round2(rfComp)
			res.FailureMode = "Compression"
			res.AppliedLoad = round2(fx)
			res.Allowable = allowComp
		} else {
			res.RF = round2(rfShear)
			res.FailureMode = "Shear"
			res.AppliedLoad = round2(fxy)
			res.Allowable = allowShear
		}
		res.Status = statusFor(res.RF)
		results[lc] = res
	}
	return results
}

// JointMargins evaluates a freebody joint: the Euclidean resultant of the
// interface forces is checked against a single shear allowable.
func JointMargins(records map[int]loads.Record, cfg allowables.Config) map[int]Result {
	allowShear := cfg.Strength("Shear", 25000.0)

	results := make(map[int]Result, len(records))
	for lc, rec := range records {
		if !rec.Numeric() || rec.Joint == nil {
			continue
		}
		j := rec.Joint
		resultant := math.Sqrt(j.Fx*j.Fx + j.Fy*j.Fy + j.Fz*j.Fz)

		rf := SentinelRF
		if resultant > nearZero {
			rf = allowShear / resultant
		}
		rf = round2(rf)

		results[lc] = Result{
			LoadCase:    lc,
			Method:      MethodNative,
			AppliedLoad: round2(resultant),
			Allowable:   allowShear,
			RF:          rf,
			FailureMode: "Resultant Shear",
			Status:      statusFor(rf),
		}
	}
	return results
}

// StatusFor exposes the pass/fail rule for backends that obtain reserve
// factors externally.
func StatusFor(rf float64) string {
	return statusFor(rf)
}

// Round2 rounds to the two decimals reported in certification tables.
func Round2(v float64) float64 {
	return round2(v)
}
