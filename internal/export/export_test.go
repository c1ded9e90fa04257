package export

import (
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/piwi3910/PresentPack/internal/engine"
	"github.com/piwi3910/PresentPack/internal/model"
)

func testPuzzle() model.Puzzle {
	return model.Puzzle{
		Shapes: []model.Shape{
			model.NewShape(0, []string{"#.", "##"}),
			model.NewShape(1, []string{"##"}),
		},
		Regions: []model.Region{
			{Width: 2, Height: 3, Counts: []int{0, 3}, Line: 7},
			{Width: 2, Height: 2, Counts: []int{0, 3}, Line: 8},
			{Width: 3, Height: 3, Counts: []int{1, 3}, Line: 9},
		},
	}
}

// solvedResult solves testPuzzle: regions 1 and 3 fit, region 2 does not.
func solvedResult(t *testing.T) (model.SolveResult, model.Puzzle) {
	t.Helper()
	p := testPuzzle()
	result, err := engine.New(model.DefaultSettings(), nil).Solve(p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if result.OK() != 2 {
		t.Fatalf("expected 2 feasible regions, got %d", result.OK())
	}
	return result, p
}

func mask(n uint, cells ...uint) *bitset.BitSet {
	b := bitset.New(n)
	for _, c := range cells {
		b.Set(c)
	}
	return b
}

// twoDominoes is a 2x2 region tiled by two horizontal dominoes.
func twoDominoes() model.RegionResult {
	return model.RegionResult{
		Region:   model.Region{Width: 2, Height: 2, Counts: []int{2}},
		Feasible: true,
		Placements: []model.Placement{
			{ShapeID: 0, X: 0, Y: 0, Mask: mask(4, 0, 1)},
			{ShapeID: 0, X: 0, Y: 1, Mask: mask(4, 2, 3)},
		},
	}
}
