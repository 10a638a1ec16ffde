package allowables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads registry entries from the first sheet of an XLSX file,
// one entry per row after the header:
//
//	pattern | shear | compression | bearing | driver | workbook | sheet | input_cells | output_cell | location_cell
//
// input_cells is a semicolon list of name=cell pairs, e.g. "Fx=B33;Fxy=D33".
// Rows with an empty pattern or unparseable strengths are skipped.
func LoadWorkbook(path string) (*Registry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("registry workbook %s: empty sheet", path)
	}

	var entries []Config
	for i := 1; i < len(rows); i++ {
		cfg, err := parseRegistryRow(rows[i])
		if err != nil {
			continue
		}
		entries = append(entries, cfg)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("registry workbook %s: no usable rows", path)
	}
	return NewRegistry(entries...), nil
}

func parseRegistryRow(row []string) (Config, error) {
	if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
		return Config{}, fmt.Errorf("bad row")
	}
	cfg := Config{
		Pattern:   strings.TrimSpace(row[0]),
		Strengths: map[string]float64{},
	}
	modes := []string{"Shear", "Compression", "Bearing"}
	for i, mode := range modes {
		col := i + 1
		if len(row) > col && row[col] != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return Config{}, err
			}
			cfg.Strengths[mode] = v
		}
	}
	if len(cfg.Strengths) == 0 {
		return Config{}, fmt.Errorf("no strengths")
	}
	if len(row) > 4 {
		cfg.Driver = strings.TrimSpace(row[4])
	}
	if len(row) > 5 {
		cfg.Workbook = strings.TrimSpace(row[5])
	}
	if len(row) > 6 {
		cfg.Sheet = strings.TrimSpace(row[6])
	}
	if len(row) > 7 && row[7] != "" {
		cfg.InputCells = parseCellMap(row[7])
	}
	if len(row) > 8 {
		cfg.OutputCell = strings.TrimSpace(row[8])
	}
	if len(row) > 9 {
		cfg.LocationCell = strings.TrimSpace(row[9])
	}
	return cfg, nil
}

func parseCellMap(s string) map[string]string {
	cells := map[string]string{}
	for _, pair := range strings.Split(s, ";") {
		name, cell, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		cell = strings.TrimSpace(cell)
		if name != "" && cell != "" {
			cells[name] = cell
		}
	}
	return cells
}
