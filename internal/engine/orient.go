package engine

import (
	"sort"

	"github.com/piwi3910/PresentPack/internal/model"
)

// Normalize translates cells so the bounding box starts at (0, 0) and sorts
// them by X then Y. Normalizing an already normalized orientation is a no-op.
func Normalize(cells []model.Cell) model.Orientation {
	if len(cells) == 0 {
		return model.Orientation{}
	}

	minX, minY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}

	shifted := make([]model.Cell, len(cells))
	maxX, maxY := 0, 0
	for i, c := range cells {
		shifted[i] = model.Cell{X: c.X - minX, Y: c.Y - minY}
		if shifted[i].X > maxX {
			maxX = shifted[i].X
		}
		if shifted[i].Y > maxY {
			maxY = shifted[i].Y
		}
	}

	sort.Slice(shifted, func(i, j int) bool {
		if shifted[i].X != shifted[j].X {
			return shifted[i].X < shifted[j].X
		}
		return shifted[i].Y < shifted[j].Y
	})

	return model.Orientation{
		Cells:  shifted,
		Width:  maxX + 1,
		Height: maxY + 1,
	}
}

// rotate90 maps (x, y) to (y, -x).
func rotate90(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	for i, c := range cells {
		out[i] = model.Cell{X: c.Y, Y: -c.X}
	}
	return out
}

// mirror negates x.
func mirror(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	for i, c := range cells {
		out[i] = model.Cell{X: -c.X, Y: c.Y}
	}
	return out
}

// Orientations returns the distinct orientations of a shape under the eight
// rotations and mirrorings, in first-seen order: the four rotations of the
// shape as given, then the four rotations of its mirror image.
func Orientations(shape model.Shape) []model.Orientation {
	return OrientationsOf(shape.Cells)
}

// OrientationsOf is Orientations for a bare cell set.
func OrientationsOf(cells []model.Cell) []model.Orientation {
	if len(cells) == 0 {
		return nil
	}

	seen := make(map[string]bool, 8)
	var out []model.Orientation

	for _, flip := range []bool{false, true} {
		pts := cells
		if flip {
			pts = mirror(cells)
		}
		for rot := 0; rot < 4; rot++ {
			o := Normalize(pts)
			if key := o.Key(); !seen[key] {
				seen[key] = true
				out = append(out, o)
			}
			pts = rotate90(pts)
		}
	}
	return out
}
