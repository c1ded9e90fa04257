package engine

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/piwi3910/PresentPack/internal/model"
)

// ShapeTable holds everything derived once from the shapes and shared,
// read-only, by every region solve.
type ShapeTable struct {
	Shapes       []model.Shape
	Orientations [][]model.Orientation // Indexed by shape id
	Areas        []int                 // Indexed by shape id
}

// NewShapeTable derives orientations and areas for each shape.
func NewShapeTable(shapes []model.Shape) ShapeTable {
	t := ShapeTable{
		Shapes:       shapes,
		Orientations: make([][]model.Orientation, len(shapes)),
		Areas:        make([]int, len(shapes)),
	}
	for i, s := range shapes {
		t.Orientations[i] = Orientations(s)
		t.Areas[i] = s.Area()
	}
	return t
}

// Len returns the number of shapes.
func (t ShapeTable) Len() int {
	return len(t.Shapes)
}

// EnumeratePlacements returns every position of every orientation that fits
// inside a w x h region. Cell (x, y) maps to bit y*w + x. An empty result
// means the shape cannot be placed in the region at all.
func EnumeratePlacements(w, h, shapeID int, orientations []model.Orientation) []model.Placement {
	if w <= 0 || h <= 0 {
		return nil
	}
	size := uint(w * h)

	var placements []model.Placement
	for oi, o := range orientations {
		if o.Width > w || o.Height > h {
			continue
		}
		for oy := 0; oy <= h-o.Height; oy++ {
			for ox := 0; ox <= w-o.Width; ox++ {
				mask := bitset.New(size)
				for _, c := range o.Cells {
					mask.Set(uint((oy+c.Y)*w + ox + c.X))
				}
				placements = append(placements, model.Placement{
					ShapeID:     shapeID,
					Orientation: oi,
					X:           ox,
					Y:           oy,
					Mask:        mask,
				})
			}
		}
	}
	return placements
}
