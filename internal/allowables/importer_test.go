package allowables

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRegistryWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"pattern", "shear", "compression", "bearing", "driver", "workbook", "sheet", "input_cells", "output_cell", "location_cell"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "registry.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	t.Run("rows become ordered entries", func(t *testing.T) {
		path := writeRegistryWorkbook(t, [][]interface{}{
			{"Upper_Skin_Panel", 150.0, 150.0},
			{"Rib", 250.0, 250.0},
			{"Front_Spar_Splice", 50000.0, "", 75000.0, "excel", "splice.xlsx", "8", "Fx=B33;Fy=C33;Fz=D33", "P33"},
		})

		reg, err := LoadWorkbook(path)
		require.NoError(t, err)
		entries := reg.Entries()
		require.Len(t, entries, 3)

		assert.Equal(t, "Upper_Skin_Panel", entries[0].Pattern)
		assert.Equal(t, 150.0, entries[0].Strengths["Shear"])
		assert.Equal(t, "Rib", entries[1].Pattern)

		splice := entries[2]
		assert.Equal(t, 75000.0, splice.Strengths["Bearing"])
		assert.Equal(t, "excel", splice.Driver)
		assert.Equal(t, "splice.xlsx", splice.Workbook)
		assert.Equal(t, "8", splice.Sheet)
		assert.Equal(t, "P33", splice.OutputCell)
		assert.Equal(t, map[string]string{"Fx": "B33", "Fy": "C33", "Fz": "D33"}, splice.InputCells)
	})

	t.Run("bad rows are skipped", func(t *testing.T) {
		path := writeRegistryWorkbook(t, [][]interface{}{
			{"", 150.0},
			{"Rib", "not-a-number"},
			{"Clip", 50000.0},
		})

		reg, err := LoadWorkbook(path)
		require.NoError(t, err)
		require.Len(t, reg.Entries(), 1)
		assert.Equal(t, "Clip", reg.Entries()[0].Pattern)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
		assert.Error(t, err)
	})
}
