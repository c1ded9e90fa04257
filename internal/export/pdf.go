package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PresentPack/internal/model"
)

// presentColor represents an RGB color for a placed present.
type presentColor struct {
	R, G, B int
}

var presentColors = []presentColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0 // title and stats line
	legendHeight = 20.0 // present legend below the grid
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0 // summary table row
)

// ExportPDF generates a PDF report of a solve. Each feasible region gets a
// page drawing its witness tiling, followed by summary pages with a table
// of every region and the shapes of the puzzle.
func ExportPDF(path string, result model.SolveResult, p model.Puzzle) error {
	if len(result.Regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, rr := range result.Regions {
		if !rr.Feasible || len(rr.Placements) == 0 {
			continue
		}
		pdf.AddPage()
		renderRegionPage(pdf, rr)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, p)

	return pdf.OutputFileAndClose(path)
}

// renderRegionPage draws one witness tiling on the current page.
func renderRegionPage(pdf *fpdf.Fpdf, rr model.RegionResult) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Region %d: %s", rr.Index+1, rr.Region)
	if rr.Region.Line > 0 {
		title += fmt.Sprintf(" (line %d)", rr.Region.Line)
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Presents: %d | Cells used: %d of %d | Fill: %.1f%% | Nodes: %d | Memo hits: %d",
		len(rr.Placements), rr.Area.RequiredArea, rr.Area.BoardArea, rr.Area.FillPercent,
		rr.Stats.Nodes, rr.Stats.MemoHits)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the grid to fit the drawing area and center it horizontally
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	w, h := float64(rr.Region.Width), float64(rr.Region.Height)
	cell := math.Min(drawWidth/w, drawHeight/h)
	canvasW := w * cell
	canvasH := h * cell
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Empty board
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Placed presents, one filled square per cell
	owners := cellOwners(rr)
	fontSize := labelFontSize(cell, cell)
	for y := 0; y < rr.Region.Height; y++ {
		for x := 0; x < rr.Region.Width; x++ {
			o := owners[y*rr.Region.Width+x]
			px := offsetX + float64(x)*cell
			py := offsetY + float64(y)*cell
			if o < 0 {
				pdf.SetDrawColor(200, 200, 200)
				pdf.SetLineWidth(0.1)
				pdf.Rect(px, py, cell, cell, "D")
				continue
			}

			col := presentColors[o%len(presentColors)]
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(col.R, col.G, col.B)
			pdf.SetLineWidth(0.1)
			pdf.Rect(px, py, cell, cell, "FD")

			// Present letter (only if the cell is large enough)
			if cell > 5 {
				letter := string(PlacementLetter(o))
				pdf.SetFont("Helvetica", "", fontSize)
				pdf.SetTextColor(0, 0, 0)
				lw := pdf.GetStringWidth(letter)
				pdf.SetXY(px+(cell-lw)/2, py+cell/2-2)
				pdf.CellFormat(lw, 4, letter, "", 0, "C", false, 0, "")
			}
		}
	}

	drawPresentBorders(pdf, rr, owners, cell, offsetX, offsetY)
	drawDimensionAnnotations(pdf, rr.Region, offsetX, offsetY, canvasW, canvasH)
	drawPresentLegend(pdf, rr, offsetY+canvasH+5)
}

// drawPresentBorders outlines each present along the edges where the
// neighbouring cell belongs to something else.
func drawPresentBorders(pdf *fpdf.Fpdf, rr model.RegionResult, owners []int, cell, offsetX, offsetY float64) {
	w, h := rr.Region.Width, rr.Region.Height
	owner := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return -2
		}
		return owners[y*w+x]
	}

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := owner(x, y)
			if o < 0 {
				continue
			}
			px := offsetX + float64(x)*cell
			py := offsetY + float64(y)*cell
			if owner(x, y-1) != o {
				pdf.Line(px, py, px+cell, py)
			}
			if owner(x, y+1) != o {
				pdf.Line(px, py+cell, px+cell, py+cell)
			}
			if owner(x-1, y) != o {
				pdf.Line(px, py, px, py+cell)
			}
			if owner(x+1, y) != o {
				pdf.Line(px+cell, py, px+cell, py+cell)
			}
		}
	}
}

// drawDimensionAnnotations adds width and height labels outside the board.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, r model.Region, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d cells", r.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d cells", r.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPresentLegend lists the placed presents below the board.
func drawPresentLegend(pdf *fpdf.Fpdf, rr model.RegionResult, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Presents placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range rr.Placements {
		col := presentColors[i%len(presentColors)]
		label := fmt.Sprintf("%c: shape %d @ (%d,%d)", PlacementLetter(i), p.ShapeID, p.X, p.Y)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			break
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the overall statistics, the per-region table and
// the shape catalogue, adding pages as the table grows.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.SolveResult, p model.Puzzle) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Present Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Regions", fmt.Sprintf("%d", len(result.Regions))},
		{"Regions That Fit", fmt.Sprintf("%d", result.OK())},
		{"Regions That Do Not Fit", fmt.Sprintf("%d", result.Failed())},
		{"Search Nodes", fmt.Sprintf("%d", result.TotalNodes())},
		{"Memo Hits", fmt.Sprintf("%d", result.TotalMemoHits())},
		{"Solve Time", result.TotalDuration().String()},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Region Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{18, 25, 25, 40, 25, 25, 35, 30}
	headers := []string{"Region", "Size", "Presents", "Required / Board", "Fill", "Result", "Nodes", "Time"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, rr := range result.Regions {
		// Add new page when needed
		if y+rowHeight > pageHeight-marginBottom-5 {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		verdict := "fits"
		if !rr.Feasible {
			verdict = "no fit"
		}
		rowData := []string{
			fmt.Sprintf("%d", rr.Index+1),
			rr.Region.String(),
			fmt.Sprintf("%d", rr.Region.Presents()),
			fmt.Sprintf("%d / %d", rr.Area.RequiredArea, rr.Area.BoardArea),
			fmt.Sprintf("%.1f%%", rr.Area.FillPercent),
			verdict,
			fmt.Sprintf("%d", rr.Stats.Nodes),
			rr.Duration.String(),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}

	renderShapeCatalogue(pdf, p.Shapes, y+8)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PresentPack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderShapeCatalogue draws each shape as a small cell grid in a row.
func renderShapeCatalogue(pdf *fpdf.Fpdf, shapes []model.Shape, y float64) {
	if len(shapes) == 0 {
		return
	}
	const cell = 4.0 // mm per shape cell

	maxRows := 0
	for _, s := range shapes {
		maxRows = max(maxRows, len(s.Rows))
	}
	if y+9+float64(maxRows)*cell > pageHeight-marginBottom-5 {
		pdf.AddPage()
		y = marginTop
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shapes", "", 0, "L", false, 0, "")
	y += 9

	x := marginLeft
	pdf.SetFont("Helvetica", "", 8)
	for _, s := range shapes {
		width := 0
		for _, row := range s.Rows {
			width = max(width, len(row))
		}
		blockW := math.Max(float64(width)*cell, 12)
		if x+blockW > pageWidth-marginRight {
			x = marginLeft
			y += float64(maxRows)*cell + 8
		}

		pdf.SetXY(x, y)
		pdf.CellFormat(blockW, 4, fmt.Sprintf("%d (%d)", s.ID, s.Area()), "", 0, "L", false, 0, "")

		col := presentColors[s.ID%len(presentColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		for _, c := range s.Cells {
			pdf.Rect(x+float64(c.X)*cell, y+5+float64(c.Y)*cell, cell, cell, "FD")
		}
		x += blockW + 6
	}
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 14
	case minDim > 20:
		return 10
	case minDim > 10:
		return 8
	default:
		return 6
	}
}
