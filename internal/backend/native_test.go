package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Certus/internal/allowables"
	"Certus/internal/loads"
	"Certus/internal/margin"
)

func TestSelect(t *testing.T) {
	reg := allowables.Default()

	native, err := Select("native", reg, "")
	require.NoError(t, err)
	assert.IsType(t, &Native{}, native)

	excel, err := Select("excel", reg, "inputs/excel")
	require.NoError(t, err)
	assert.IsType(t, &Excel{}, excel)

	fallback, err := Select("", reg, "")
	require.NoError(t, err)
	assert.IsType(t, &Native{}, fallback)

	_, err = Select("abacus", reg, "")
	assert.Error(t, err)
}

func TestNativeCompute(t *testing.T) {
	engine := &Native{Registry: allowables.Default()}

	t.Run("panels and joints land in their buckets", func(t *testing.T) {
		set := loads.Set{
			Elements: map[string]map[int]loads.Record{
				"Upper_Skin_Panel": {
					1: loads.PanelRecord(50, 0, 200),
				},
			},
			Freebodies: map[string]map[int]loads.Record{
				"Front_Spar_Splice": {
					1: loads.JointRecord(30000, 40000, 0, 0, 0, 0),
				},
			},
		}

		out, err := engine.Compute(set)
		require.NoError(t, err)

		panel := out.Elements["Upper_Skin_Panel"]
		require.Contains(t, panel.Cases, 1)
		assert.Equal(t, 0.75, panel.Cases[1].RF)
		assert.Equal(t, "Shear", panel.Cases[1].FailureMode)
		assert.Equal(t, margin.StatusFail, panel.Cases[1].Status)

		joint := out.Freebodies["Front_Spar_Splice"]
		require.Contains(t, joint.Cases, 1)
		assert.Equal(t, 1.0, joint.Cases[1].RF)
		assert.Equal(t, margin.StatusPass, joint.Cases[1].Status)
	})

	t.Run("unmatched component still produces results", func(t *testing.T) {
		set := loads.Set{
			Elements: map[string]map[int]loads.Record{
				"Mystery_Bracket_77": {
					1: loads.PanelRecord(50, 0, 0),
				},
			},
			Freebodies: map[string]map[int]loads.Record{},
		}

		out, err := engine.Compute(set)
		require.NoError(t, err)

		comp := out.Elements["Mystery_Bracket_77"]
		require.Contains(t, comp.Cases, 1)
		// generic panel default allowable is 100 N/mm
		assert.Equal(t, 2.0, comp.Cases[1].RF)
	})

	t.Run("many components compute consistently in parallel", func(t *testing.T) {
		set := loads.Set{
			Elements:   map[string]map[int]loads.Record{},
			Freebodies: map[string]map[int]loads.Record{},
		}
		names := []string{"Panel_A", "Panel_B", "Panel_C", "Panel_D", "Panel_E", "Panel_F", "Panel_G", "Panel_H"}
		for _, name := range names {
			set.Elements[name] = map[int]loads.Record{
				1: loads.PanelRecord(0, 0, 50),
			}
		}

		out, err := engine.Compute(set)
		require.NoError(t, err)
		require.Len(t, out.Elements, len(names))
		for _, name := range names {
			assert.Equal(t, 2.0, out.Elements[name].Cases[1].RF, name)
		}
	})

	t.Run("marker-only component yields an empty case map", func(t *testing.T) {
		set := loads.Set{
			Elements: map[string]map[int]loads.Record{
				"Upper_Skin_Panel": {
					1: loads.MarkerRecord("Load Case missing"),
				},
			},
			Freebodies: map[string]map[int]loads.Record{},
		}

		out, err := engine.Compute(set)
		require.NoError(t, err)
		comp := out.Elements["Upper_Skin_Panel"]
		assert.Empty(t, comp.Cases)
		assert.Empty(t, comp.Err)
	})
}
