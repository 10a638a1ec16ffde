package margin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Certus/internal/allowables"
	"Certus/internal/loads"
)

func panelConfig(shear, comp float64) allowables.Config {
	return allowables.Config{
		Pattern:   "test",
		Strengths: map[string]float64{"Shear": shear, "Compression": comp},
	}
}

func TestPanelMargins(t *testing.T) {
	t.Run("shear governs when its reserve factor is lower", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.PanelRecord(50, 0, 200),
		}
		results := PanelMargins(records, panelConfig(150, 150))
		require.Contains(t, results, 1)

		res := results[1]
		assert.Equal(t, 0.75, res.RF)
		assert.Equal(t, "Shear", res.FailureMode)
		assert.Equal(t, StatusFail, res.Status)
		assert.Equal(t, 200.0, res.AppliedLoad)
		assert.Equal(t, 150.0, res.Allowable)
	})

	t.Run("compression governs with the sign stripped", func(t *testing.T) {
		records := map[int]loads.Record{
			7: loads.PanelRecord(-120, 0, 10),
		}
		results := PanelMargins(records, panelConfig(150, 150))
		require.Contains(t, results, 7)

		res := results[7]
		assert.Equal(t, "Compression", res.FailureMode)
		assert.Equal(t, 1.25, res.RF)
		assert.Equal(t, StatusPass, res.Status)
		assert.Equal(t, 120.0, res.AppliedLoad)
	})

	t.Run("zero load reports the sentinel and passes", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.PanelRecord(0, 0, 0),
		}
		results := PanelMargins(records, panelConfig(150, 150))
		require.Contains(t, results, 1)

		res := results[1]
		assert.Equal(t, SentinelRF, res.RF)
		assert.Equal(t, StatusPass, res.Status)
	})

	t.Run("error markers are skipped, not zeroed", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.PanelRecord(50, 0, 200),
			2: loads.MarkerRecord("Load Case missing"),
		}
		results := PanelMargins(records, panelConfig(150, 150))
		assert.Len(t, results, 1)
		assert.NotContains(t, results, 2)
	})

	t.Run("missing strength modes fall back to defaults", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.PanelRecord(50, 0, 0),
		}
		results := PanelMargins(records, allowables.Config{Strengths: map[string]float64{}})
		require.Contains(t, results, 1)
		// fallback compression allowable is 100 N/mm
		assert.Equal(t, 2.0, results[1].RF)
	})

	t.Run("reserve factor is rounded to two decimals", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.PanelRecord(0, 0, 3),
		}
		results := PanelMargins(records, panelConfig(100, 100))
		assert.Equal(t, 33.33, results[1].RF)
	})
}

func TestJointMargins(t *testing.T) {
	cfg := allowables.Config{Strengths: map[string]float64{"Shear": 50000}}

	t.Run("3-4-5 resultant lands exactly on the allowable", func(t *testing.T) {
		records := map[int]loads.Record{
			1: loads.JointRecord(30000, 40000, 0, 0, 0, 0),
		}
		results := JointMargins(records, cfg)
		require.Contains(t, results, 1)

		res := results[1]
		assert.Equal(t, 1.0, res.RF)
		assert.Equal(t, StatusPass, res.Status)
		assert.Equal(t, 50000.0, res.AppliedLoad)
		assert.Equal(t, "Resultant Shear", res.FailureMode)
	})

	t.Run("zero resultant reports the sentinel", func(t *testing.T) {
		records := map[int]loads.Record{
			3: loads.JointRecord(0, 0, 0, 0, 0, 0),
		}
		results := JointMargins(records, cfg)
		assert.Equal(t, SentinelRF, results[3].RF)
		assert.Equal(t, StatusPass, results[3].Status)
	})

	t.Run("overload fails", func(t *testing.T) {
		records := map[int]loads.Record{
			2: loads.JointRecord(60000, 0, 0, 0, 0, 0),
		}
		results := JointMargins(records, cfg)
		assert.Equal(t, 0.83, results[2].RF)
		assert.Equal(t, StatusFail, results[2].Status)
	})
}

func TestStatusRule(t *testing.T) {
	// status is FAIL exactly when RF < 1.0
	assert.Equal(t, StatusFail, StatusFor(0.99))
	assert.Equal(t, StatusPass, StatusFor(1.0))
	assert.Equal(t, StatusPass, StatusFor(SentinelRF))
}

func TestComponentResultsJSON(t *testing.T) {
	t.Run("error entry marshals to the Error wire form", func(t *testing.T) {
		data, err := json.Marshal(ErrorFor("Excel file not found"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"Error": "Excel file not found"}`, string(data))
	})

	t.Run("cases round-trip keyed by load case", func(t *testing.T) {
		comp := CasesFor(map[int]Result{
			4: {LoadCase: 4, Method: MethodNative, RF: 0.75, FailureMode: "Shear", Status: StatusFail},
		})
		data, err := json.Marshal(comp)
		require.NoError(t, err)

		var back ComponentResults
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, comp.Cases, back.Cases)
		assert.Empty(t, back.Err)
	})

	t.Run("error entry round-trips", func(t *testing.T) {
		data, err := json.Marshal(ErrorFor("workbook open failed"))
		require.NoError(t, err)

		var back ComponentResults
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, "workbook open failed", back.Err)
	})
}

func TestWorst(t *testing.T) {
	comp := CasesFor(map[int]Result{
		1: {LoadCase: 1, RF: 2.5},
		2: {LoadCase: 2, RF: 0.75},
		3: {LoadCase: 3, RF: 1.1},
	})
	worst, ok := comp.Worst()
	require.True(t, ok)
	assert.Equal(t, 2, worst.LoadCase)

	_, ok = ErrorFor("nope").Worst()
	assert.False(t, ok)
}
