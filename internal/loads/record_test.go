package loads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJSON(t *testing.T) {
	t.Run("panel object decodes by its field names", func(t *testing.T) {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(`{"Fx_Nmm": 42.5, "Fy_Nmm": 12.1, "Fxy_Nmm": 61.0}`), &rec))
		require.NotNil(t, rec.Panel)
		assert.Equal(t, 42.5, rec.Panel.Fx)
		assert.Equal(t, 61.0, rec.Panel.Fxy)
		assert.True(t, rec.Numeric())
	})

	t.Run("joint object decodes", func(t *testing.T) {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(`{"Fx": 30000, "Fy": 40000, "Fz": 0, "Mx": 0, "My": 0, "Mz": 0}`), &rec))
		require.NotNil(t, rec.Joint)
		assert.Equal(t, 40000.0, rec.Joint.Fy)
	})

	t.Run("bare string becomes an error marker", func(t *testing.T) {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(`"Load Case missing"`), &rec))
		assert.Equal(t, "Load Case missing", rec.Marker)
		assert.False(t, rec.Numeric())
	})

	t.Run("records round-trip inside a case map", func(t *testing.T) {
		in := map[int]Record{
			1: PanelRecord(42.5, 12.1, 61.0),
			2: MarkerRecord("Load Case missing"),
		}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out map[int]Record
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("empty record refuses to marshal", func(t *testing.T) {
		_, err := json.Marshal(Record{})
		assert.Error(t, err)
	})
}
