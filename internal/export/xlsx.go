package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PresentPack/internal/model"
)

const (
	regionsSheet    = "Regions"
	placementsSheet = "Placements"
	shapesSheet     = "Shapes"
)

// ExportXLSX writes the solve result to an Excel workbook with a Regions
// sheet (one row per region), a Placements sheet (one row per placed
// present) and a Shapes sheet.
func ExportXLSX(path string, result model.SolveResult, p model.Puzzle) error {
	if len(result.Regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), regionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{placementsSheet, shapesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	w := sheetWriter{f: f, headerStyle: headerStyle}

	regionHeader := []interface{}{"Region", "Line", "Width", "Height"}
	for i := range p.Shapes {
		regionHeader = append(regionHeader, fmt.Sprintf("Shape %d", i))
	}
	regionHeader = append(regionHeader, "Required Area", "Board Area", "Fill %", "Fits", "Nodes", "Memo Hits", "Time (ms)")
	w.header(regionsSheet, regionHeader)

	for i, rr := range result.Regions {
		row := []interface{}{rr.Index + 1, rr.Region.Line, rr.Region.Width, rr.Region.Height}
		for _, c := range rr.Region.PaddedCounts(len(p.Shapes)) {
			row = append(row, c)
		}
		row = append(row,
			rr.Area.RequiredArea,
			rr.Area.BoardArea,
			rr.Area.FillPercent,
			rr.Feasible,
			rr.Stats.Nodes,
			rr.Stats.MemoHits,
			float64(rr.Duration.Microseconds())/1000,
		)
		w.row(regionsSheet, i+2, row)
	}

	w.header(placementsSheet, []interface{}{"Region", "Letter", "Shape", "Orientation", "X", "Y", "Cells"})
	n := 2
	for _, rr := range result.Regions {
		for i, pl := range rr.Placements {
			w.row(placementsSheet, n, []interface{}{
				rr.Index + 1,
				string(PlacementLetter(i)),
				pl.ShapeID,
				pl.Orientation,
				pl.X,
				pl.Y,
				fmt.Sprint(pl.CellIndices()),
			})
			n++
		}
	}

	w.header(shapesSheet, []interface{}{"Shape", "Area", "Rows"})
	for i, s := range p.Shapes {
		w.row(shapesSheet, i+2, []interface{}{s.ID, s.Area(), strings.Join(s.Rows, "/")})
	}

	if w.err != nil {
		return w.err
	}

	if err := f.SetColWidth(placementsSheet, "G", "G", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	return f.SaveAs(path)
}

// sheetWriter writes rows and keeps the first error.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) header(sheet string, values []interface{}) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	end, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", end, w.headerStyle); err != nil {
		w.err = fmt.Errorf("style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) row(sheet string, rowNum int, values []interface{}) {
	if w.err != nil {
		return
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(sheet, cell, v); err != nil {
			w.err = fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			return
		}
	}
}
