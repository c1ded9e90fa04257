package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PresentPack/internal/model"
)

// sampleShapes are the six shapes of the puzzle's worked example.
func sampleShapes() []model.Shape {
	grids := [][]string{
		{"###", "##.", "##."},
		{"###", "##.", ".##"},
		{".##", "###", "##."},
		{"##.", "###", "##."},
		{"###", "#..", "###"},
		{"###", ".#.", "###"},
	}
	shapes := make([]model.Shape, len(grids))
	for i, g := range grids {
		shapes[i] = model.NewShape(i, g)
	}
	return shapes
}

func TestOrientations_SingleCell(t *testing.T) {
	got := Orientations(model.NewShape(0, []string{"#"}))

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Width)
	assert.Equal(t, 1, got[0].Height)
	assert.Equal(t, []model.Cell{{X: 0, Y: 0}}, got[0].Cells)
}

func TestOrientations_LTromino(t *testing.T) {
	// Every mirror image of the L-tromino is also one of its rotations, so
	// the full count is the same as the rotation-only count.
	shape := model.NewShape(0, []string{"#.", "##"})

	rotations := map[string]bool{}
	pts := shape.Cells
	for i := 0; i < 4; i++ {
		rotations[Normalize(pts).Key()] = true
		pts = rotate90(pts)
	}
	assert.Len(t, rotations, 4, "four distinct rotations")

	got := Orientations(shape)
	assert.Len(t, got, 4)
	for _, o := range got {
		assert.True(t, rotations[o.Key()], "orientation %v should be a rotation", o.Cells)
	}
}

func TestOrientations_KnownCounts(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want int
	}{
		{"domino", []string{"##"}, 2},
		{"I-tromino", []string{"###"}, 2},
		{"square", []string{"##", "##"}, 1},
		{"T-tetromino", []string{"###", ".#."}, 4},
		{"S-tetromino", []string{".##", "##."}, 4},
		{"L-tetromino", []string{"#.", "#.", "##"}, 8},
		{"plus", []string{".#.", "###", ".#."}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orientations(model.NewShape(0, tt.rows))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestOrientations_SampleShapes(t *testing.T) {
	want := []int{8, 8, 2, 4, 4, 2}
	for i, s := range sampleShapes() {
		assert.Len(t, Orientations(s), want[i], "shape %d", i)
	}
}

func TestOrientations_AreaPreservingAndBounded(t *testing.T) {
	shapes := append(sampleShapes(),
		model.NewShape(6, []string{"#"}),
		model.NewShape(7, []string{"#..#", "####"}),
		model.NewShape(8, []string{"#.#", "...", "#.#"}),
	)

	for _, s := range shapes {
		got := Orientations(s)
		require.GreaterOrEqual(t, len(got), 1, "shape %d", s.ID)
		require.LessOrEqual(t, len(got), 8, "shape %d", s.ID)

		seen := map[string]bool{}
		for _, o := range got {
			assert.Len(t, o.Cells, s.Area(), "shape %d loses or gains cells", s.ID)
			assert.False(t, seen[o.Key()], "shape %d has a duplicate orientation", s.ID)
			seen[o.Key()] = true
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range sampleShapes() {
		for _, o := range Orientations(s) {
			again := Normalize(o.Cells)
			if diff := cmp.Diff(o, again); diff != "" {
				t.Errorf("shape %d: normalize not idempotent (-want +got):\n%s", s.ID, diff)
			}
		}
	}
}

func TestNormalize_ShiftsAndSorts(t *testing.T) {
	got := Normalize([]model.Cell{{X: 5, Y: -1}, {X: 3, Y: 0}, {X: 3, Y: -1}})

	want := model.Orientation{
		Cells:  []model.Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 0}},
		Width:  3,
		Height: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(nil)
	assert.Empty(t, got.Cells)
	assert.Zero(t, got.Width)
}

func TestOrientations_FirstIsInputShape(t *testing.T) {
	s := model.NewShape(0, []string{"###"})
	got := Orientations(s)

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Width)
	assert.Equal(t, 1, got[0].Height)
	assert.Equal(t, 1, got[1].Width)
	assert.Equal(t, 3, got[1].Height)
}

func TestOrientations_EmptyShape(t *testing.T) {
	assert.Nil(t, Orientations(model.NewShape(0, []string{"..."})))
}
