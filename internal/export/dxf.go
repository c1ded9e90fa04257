package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/PresentPack/internal/model"
)

// RegionLayer holds the region boundary in exported drawings.
const RegionLayer = "REGION"

var layerColors = []color.ColorNumber{
	color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta,
}

// ShapeLayer returns the layer name used for presents of a shape.
func ShapeLayer(shapeID int) string {
	return fmt.Sprintf("SHAPE_%d", shapeID)
}

// ExportDXF writes a region's witness tiling as a DXF drawing with one
// drawing unit per cell. The region boundary goes on RegionLayer and each
// present is outlined on the layer of its shape. DXF Y grows upwards, so
// grid row 0 is drawn at the top.
func ExportDXF(path string, rr model.RegionResult) error {
	if !rr.Feasible {
		return fmt.Errorf("region %d (%s) has no tiling to export", rr.Index+1, rr.Region)
	}
	w, h := rr.Region.Width, rr.Region.Height

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(RegionLayer, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("add layer %s: %w", RegionLayer, err)
	}
	seen := map[int]bool{}
	for _, p := range rr.Placements {
		if seen[p.ShapeID] {
			continue
		}
		seen[p.ShapeID] = true
		col := layerColors[p.ShapeID%len(layerColors)]
		if _, err := d.AddLayer(ShapeLayer(p.ShapeID), col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer for shape %d: %w", p.ShapeID, err)
		}
	}

	if err := d.ChangeLayer(RegionLayer); err != nil {
		return err
	}
	fw, fh := float64(w), float64(h)
	for _, seg := range [][4]float64{{0, 0, fw, 0}, {fw, 0, fw, fh}, {fw, fh, 0, fh}, {0, fh, 0, 0}} {
		if _, err := d.Line(seg[0], seg[1], 0, seg[2], seg[3], 0); err != nil {
			return fmt.Errorf("draw region boundary: %w", err)
		}
	}

	owners := cellOwners(rr)
	owner := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return -1
		}
		return owners[y*w+x]
	}

	for pi, p := range rr.Placements {
		if err := d.ChangeLayer(ShapeLayer(p.ShapeID)); err != nil {
			return err
		}
		for _, idx := range p.CellIndices() {
			x, y := idx%w, idx/w
			// Bottom-left corner of the cell in drawing coordinates.
			x0, y0 := float64(x), float64(h-1-y)
			var edges [][4]float64
			if owner(x, y-1) != pi {
				edges = append(edges, [4]float64{x0, y0 + 1, x0 + 1, y0 + 1})
			}
			if owner(x, y+1) != pi {
				edges = append(edges, [4]float64{x0, y0, x0 + 1, y0})
			}
			if owner(x-1, y) != pi {
				edges = append(edges, [4]float64{x0, y0, x0, y0 + 1})
			}
			if owner(x+1, y) != pi {
				edges = append(edges, [4]float64{x0 + 1, y0, x0 + 1, y0 + 1})
			}
			for _, e := range edges {
				if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
					return fmt.Errorf("draw present %c: %w", PlacementLetter(pi), err)
				}
			}
		}
	}

	return d.SaveAs(path)
}
