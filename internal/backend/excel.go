package backend

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"Certus/internal/allowables"
	"Certus/internal/loads"
	"Certus/internal/margin"
)

// Excel drives certification workbooks instead of computing margins itself:
// per component it opens the workbook named by the registry entry, writes
// the extracted loads into the mapped input cells, evaluates the reserve
// factor cell and wraps the value in the shared result shape.
//
// Only one workbook session runs at a time; components never share an open
// workbook. A failure while handling one component is recorded as that
// component's error entry and the next component starts with a fresh
// session.
type Excel struct {
	Registry *allowables.Registry
	// BaseDir resolves relative workbook paths from registry entries.
	BaseDir string

	mu sync.Mutex
}

func (e *Excel) Compute(set loads.Set) (margin.ResultSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := margin.NewResultSet()
	for name, records := range set.Elements {
		out.Elements[name] = e.component(name, "panel", records)
	}
	for name, records := range set.Freebodies {
		out.Freebodies[name] = e.component(name, "freebody", records)
	}
	return out, nil
}

func (e *Excel) component(name, archetype string, records map[int]loads.Record) margin.ComponentResults {
	cfg, err := e.Registry.Resolve(name, archetype)
	if err != nil {
		return margin.ErrorFor(err.Error())
	}
	if cfg.Workbook == "" || cfg.OutputCell == "" {
		return margin.ErrorFor(fmt.Sprintf("no workbook mapped for %s", name))
	}

	path := cfg.Workbook
	if e.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.BaseDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("excel backend: %s: workbook %s missing", name, path)
		return margin.ErrorFor("Excel file not found")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return margin.ErrorFor(fmt.Sprintf("workbook open: %v", err))
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	if cfg.Driver == "excel_summary" {
		return e.summary(f, sheet, cfg, records)
	}
	return e.perCase(f, sheet, cfg, records)
}

// perCase writes each load case's inputs and reads the reserve factor back,
// one round trip per case.
func (e *Excel) perCase(f *excelize.File, sheet string, cfg allowables.Config, records map[int]loads.Record) margin.ComponentResults {
	cases := make(map[int]margin.Result, len(records))
	for lc, rec := range records {
		if !rec.Numeric() {
			continue
		}
		if err := writeInputs(f, sheet, cfg.InputCells, rec); err != nil {
			cases[lc] = margin.Result{LoadCase: lc, Method: margin.MethodExcel, Status: "ERROR"}
			continue
		}
		rf, err := readRF(f, sheet, cfg.OutputCell)
		if err != nil {
			cases[lc] = margin.Result{LoadCase: lc, Method: margin.MethodExcel, Status: "ERROR"}
			continue
		}
		cases[lc] = margin.Result{
			LoadCase: lc,
			Method:   margin.MethodExcel,
			RF:       rf,
			Status:   margin.StatusFor(rf),
		}
	}
	return margin.CasesFor(cases)
}

// summary reads one aggregate reserve factor plus a critical-location label
// and applies them uniformly to every requested load case.
func (e *Excel) summary(f *excelize.File, sheet string, cfg allowables.Config, records map[int]loads.Record) margin.ComponentResults {
	rf, err := readRF(f, sheet, cfg.OutputCell)
	if err != nil {
		return margin.ErrorFor(fmt.Sprintf("summary cell %s: %v", cfg.OutputCell, err))
	}
	location := ""
	if cfg.LocationCell != "" {
		location, _ = f.GetCellValue(sheet, cfg.LocationCell)
	}

	cases := make(map[int]margin.Result, len(records))
	for lc := range records {
		cases[lc] = margin.Result{
			LoadCase:    lc,
			Method:      margin.MethodExcel,
			RF:          rf,
			FailureMode: location,
			Status:      margin.StatusFor(rf),
		}
	}
	return margin.CasesFor(cases)
}

func writeInputs(f *excelize.File, sheet string, cells map[string]string, rec loads.Record) error {
	values := map[string]float64{}
	switch {
	case rec.Panel != nil:
		values["Fx"] = rec.Panel.Fx
		values["Fy"] = rec.Panel.Fy
		values["Fxy"] = rec.Panel.Fxy
	case rec.Joint != nil:
		values["Fx"] = rec.Joint.Fx
		values["Fy"] = rec.Joint.Fy
		values["Fz"] = rec.Joint.Fz
		values["Mx"] = rec.Joint.Mx
		values["My"] = rec.Joint.My
		values["Mz"] = rec.Joint.Mz
	}
	for name, cell := range cells {
		v, ok := values[name]
		if !ok {
			continue
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func readRF(f *excelize.File, sheet, cell string) (float64, error) {
	raw, err := f.CalcCellValue(sheet, cell)
	if err != nil {
		return 0, err
	}
	rf, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("reserve factor cell %s: %w", cell, err)
	}
	return margin.Round2(rf), nil
}
