// Package export writes solve results to reports, labels, workbooks and
// drawings, and renders witness tilings as text.
package export

import (
	"strings"

	"github.com/piwi3910/PresentPack/internal/model"
)

const placementLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// PlacementLetter returns the letter used for the i-th placement of a tiling.
// Letters repeat after 52 placements.
func PlacementLetter(i int) byte {
	return placementLetters[i%len(placementLetters)]
}

// cellOwners maps every cell index (y*W + x) of the region to the index of
// the placement covering it, or -1 when the cell is empty.
func cellOwners(rr model.RegionResult) []int {
	owners := make([]int, rr.Region.BoardArea())
	for i := range owners {
		owners[i] = -1
	}
	for pi, p := range rr.Placements {
		for _, idx := range p.CellIndices() {
			if idx < len(owners) {
				owners[idx] = pi
			}
		}
	}
	return owners
}

// RenderTiling draws the region's witness tiling with one letter per placed
// present and '.' for empty cells, one line per row.
func RenderTiling(rr model.RegionResult) string {
	w, h := rr.Region.Width, rr.Region.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	owners := cellOwners(rr)

	var sb strings.Builder
	sb.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if o := owners[y*w+x]; o >= 0 {
				sb.WriteByte(PlacementLetter(o))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
