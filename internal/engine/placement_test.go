package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PresentPack/internal/model"
)

func TestEnumeratePlacements_SingleCell(t *testing.T) {
	orients := Orientations(model.NewShape(0, []string{"#"}))
	got := EnumeratePlacements(2, 2, 0, orients)

	require.Len(t, got, 4)
	// Offsets run row by row: (0,0) (1,0) (0,1) (1,1)
	assert.Equal(t, []int{0}, got[0].CellIndices())
	assert.Equal(t, []int{1}, got[1].CellIndices())
	assert.Equal(t, []int{2}, got[2].CellIndices())
	assert.Equal(t, []int{3}, got[3].CellIndices())
	assert.Equal(t, 1, got[3].X)
	assert.Equal(t, 1, got[3].Y)
}

func TestEnumeratePlacements_Domino(t *testing.T) {
	orients := Orientations(model.NewShape(2, []string{"##"}))
	got := EnumeratePlacements(3, 2, 2, orients)

	// Horizontal: 2 columns x 2 rows, vertical: 3 columns x 1 row.
	require.Len(t, got, 7)
	for _, p := range got {
		assert.Equal(t, 2, p.ShapeID)
	}
	// Vertical domino at (2, 0) covers cells 2 and 5.
	last := got[len(got)-1]
	assert.Equal(t, 1, last.Orientation)
	assert.Equal(t, []int{2, 5}, last.CellIndices())
}

func TestEnumeratePlacements_BitCountMatchesArea(t *testing.T) {
	for _, s := range sampleShapes() {
		placements := EnumeratePlacements(12, 5, s.ID, Orientations(s))
		require.NotEmpty(t, placements, "shape %d", s.ID)
		for _, p := range placements {
			assert.Equal(t, uint(s.Area()), p.Mask.Count(), "shape %d at (%d,%d)", s.ID, p.X, p.Y)
			for _, idx := range p.CellIndices() {
				assert.Less(t, idx, 60)
			}
		}
	}
}

func TestEnumeratePlacements_TooLarge(t *testing.T) {
	orients := Orientations(model.NewShape(0, []string{"###", "#..", "###"}))
	assert.Empty(t, EnumeratePlacements(2, 5, 0, orients))
	assert.Empty(t, EnumeratePlacements(0, 5, 0, orients))
}

func TestEnumeratePlacements_OnlyFittingOrientations(t *testing.T) {
	// In a 3x1 strip only the horizontal I-tromino fits, exactly once.
	orients := Orientations(model.NewShape(0, []string{"###"}))
	got := EnumeratePlacements(3, 1, 0, orients)

	require.Len(t, got, 1)
	assert.Equal(t, []int{0, 1, 2}, got[0].CellIndices())
}

func TestNewShapeTable(t *testing.T) {
	table := NewShapeTable(sampleShapes())

	assert.Equal(t, 6, table.Len())
	assert.Equal(t, []int{7, 7, 7, 7, 7, 7}, table.Areas)
	assert.Len(t, table.Orientations[2], 2)
}
