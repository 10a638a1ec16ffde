package mapping

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDat = `$* Simcenter Nastran export
$* Mesh Collector: W_Flap_UpperSkin Panel 2 Bay 6_1.27mm
$* Mesh: CQUAD4 2601158-2601160(3)
GRID 1 0 0.0 0.0 0.0
$* Mesh Collector: Empty_Collector
$* Mesh Collector: Intermediate_Ribs
$* Mesh: CQUAD4 12090-12092(3)
$* Mesh: CQUAD4 12100-12101(2)
CQUAD4 12090 1 1 2 3 4
`

func TestParseDatReader(t *testing.T) {
	m, err := ParseDatReader(strings.NewReader(sampleDat))
	require.NoError(t, err)
	require.Len(t, m, 2)

	skin := m["W_Flap_UpperSkin Panel 2 Bay 6_1.27mm"]
	assert.Equal(t, []int{2601158, 2601159, 2601160}, skin.IDs)
	assert.Equal(t, "panel", skin.Type)

	ribs := m["Intermediate_Ribs"]
	assert.Equal(t, []int{12090, 12091, 12092, 12100, 12101}, ribs.IDs)

	// collectors with no id ranges are dropped
	assert.NotContains(t, m, "Empty_Collector")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	m := Map{
		"Upper_Skin_Panel":  {IDs: []int{12090}, Type: "panel"},
		"Front_Spar_Splice": {IDs: []int{2710102}, Type: "freebody"},
	}
	require.NoError(t, m.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestLoadOrDemo(t *testing.T) {
	t.Run("absent file falls back to demo mapping", func(t *testing.T) {
		m := LoadOrDemo(filepath.Join(t.TempDir(), "missing.json"))
		assert.Equal(t, Demo(), m)
	})

	t.Run("empty path means demo", func(t *testing.T) {
		assert.Equal(t, Demo(), LoadOrDemo(""))
	})

	t.Run("existing file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.json")
		m := Map{"Nose_Rib_3": {IDs: []int{77}, Type: "panel"}}
		require.NoError(t, m.Save(path))
		assert.Equal(t, m, LoadOrDemo(path))
	})
}
