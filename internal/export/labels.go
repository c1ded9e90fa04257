package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PresentPack/internal/model"
)

// LabelInfo holds the data encoded into each present label's QR code.
type LabelInfo struct {
	Letter      string `json:"letter"`
	ShapeID     int    `json:"shape"`
	RegionIndex int    `json:"region"`
	RegionSize  string `json:"region_size"`
	Orientation int    `json:"orientation"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per present placed
// in a feasible region. Each label shows the present's letter, shape and
// offset next to a QR code encoding the LabelInfo as JSON. Labels are laid
// out on a standard Avery 5160 sheet, 30 to a page.
func ExportLabels(path string, result model.SolveResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no placed presents to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("render label %d: %w", i+1, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Present %s - shape %d", info.Letter, info.ShapeID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Region %d (%s)", info.RegionIndex+1, info.RegionSize), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Orientation %d @ (%d, %d)", info.Orientation, info.X, info.Y), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information for every placed present,
// in region order then placement order.
func CollectLabelInfos(result model.SolveResult) []LabelInfo {
	var labels []LabelInfo
	for _, rr := range result.Regions {
		if !rr.Feasible {
			continue
		}
		for i, p := range rr.Placements {
			labels = append(labels, LabelInfo{
				Letter:      string(PlacementLetter(i)),
				ShapeID:     p.ShapeID,
				RegionIndex: rr.Index,
				RegionSize:  rr.Region.String(),
				Orientation: p.Orientation,
				X:           p.X,
				Y:           p.Y,
			})
		}
	}
	return labels
}
