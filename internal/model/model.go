package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// Cell is a grid coordinate: X is the column, Y is the row.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Shape is one present shape from the puzzle input.
type Shape struct {
	ID    int      `json:"id"`
	Rows  []string `json:"rows"`  // Source grid, '#' filled and '.' empty
	Cells []Cell   `json:"cells"` // Filled cells in row-major order
}

// NewShape builds a shape from its grid rows. Any character other than '#'
// is treated as empty.
func NewShape(id int, rows []string) Shape {
	var cells []Cell
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	cp := make([]string, len(rows))
	copy(cp, rows)
	return Shape{ID: id, Rows: cp, Cells: cells}
}

// Area returns the number of filled cells.
func (s Shape) Area() int {
	return len(s.Cells)
}

// Orientation is a normalized rotation/mirror variant of a shape.
// Cells are sorted by X then Y and the bounding box starts at (0, 0).
type Orientation struct {
	Cells  []Cell `json:"cells"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Key returns a string uniquely identifying the cell set.
func (o Orientation) Key() string {
	b := make([]byte, 0, len(o.Cells)*6)
	for _, c := range o.Cells {
		b = fmt.Appendf(b, "%d,%d;", c.X, c.Y)
	}
	return string(b)
}

// Equal reports whether two orientations cover the same normalized cells.
func (o Orientation) Equal(other Orientation) bool {
	if len(o.Cells) != len(other.Cells) {
		return false
	}
	for i := range o.Cells {
		if o.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// Region is a rectangle under the tree with the required count per shape.
type Region struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Counts []int `json:"counts"`
	Line   int   `json:"line,omitempty"` // Source line number, 0 when not parsed from text
}

// MaxRegionCells bounds W x H. Occupied masks hold one bit per cell, so
// this keeps a region's search state under 128 KiB.
const MaxRegionCells = 1 << 20

// ErrRegionTooLarge is returned for regions with more than MaxRegionCells cells.
var ErrRegionTooLarge = errors.New("region too large")

// CheckDimensions rejects non-positive sizes and sizes whose cell count
// exceeds MaxRegionCells. The product is never computed before the bound
// check, so it cannot overflow.
func CheckDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	if w > MaxRegionCells || h > MaxRegionCells/w {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrRegionTooLarge, w, h, MaxRegionCells)
	}
	return nil
}

// BoardArea returns W x H.
func (r Region) BoardArea() int {
	return r.Width * r.Height
}

// Count returns the required count for a shape id; missing entries are zero.
func (r Region) Count(shapeID int) int {
	if shapeID < 0 || shapeID >= len(r.Counts) {
		return 0
	}
	return r.Counts[shapeID]
}

// PaddedCounts returns the counts extended with zeros (or truncated) to n entries.
func (r Region) PaddedCounts(n int) []int {
	out := make([]int, n)
	copy(out, r.Counts)
	return out
}

// RequiredArea returns the total number of cells the requested presents cover.
func (r Region) RequiredArea(areas []int) int {
	total := 0
	for i, a := range areas {
		total += r.Count(i) * a
	}
	return total
}

// Presents returns the total number of requested presents.
func (r Region) Presents() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Puzzle is the parsed input: shapes indexed by id, then regions in input order.
type Puzzle struct {
	Shapes  []Shape  `json:"shapes"`
	Regions []Region `json:"regions"`
}

// Areas returns the area of each shape indexed by id.
func (p Puzzle) Areas() []int {
	areas := make([]int, len(p.Shapes))
	for i, s := range p.Shapes {
		areas[i] = s.Area()
	}
	return areas
}

// Placement is one orientation of a shape positioned inside a region.
type Placement struct {
	ShapeID     int            `json:"shape_id"`
	Orientation int            `json:"orientation"` // Index into the shape's orientation list
	X           int            `json:"x"`           // Offset of the orientation's bounding box
	Y           int            `json:"y"`
	Mask        *bitset.BitSet `json:"-"` // Occupied cells, bit index y*W + x
}

// CellIndices returns the bit indices the placement covers in ascending order.
func (p Placement) CellIndices() []int {
	if p.Mask == nil {
		return nil
	}
	out := make([]int, 0, p.Mask.Count())
	for i, ok := p.Mask.NextSet(0); ok; i, ok = p.Mask.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// SearchStats describes how much work a region solve took.
type SearchStats struct {
	Nodes    int  `json:"nodes"`     // Recursive calls made
	MemoHits int  `json:"memo_hits"` // States answered from the memo table
	DeadEnds int  `json:"dead_ends"` // States failed by area or forced-failure pruning
	MemoSize int  `json:"memo_size"` // Entries in the memo table at the end
	Precheck bool `json:"precheck"`  // Decided before any search
}

// RegionResult is the outcome of solving one region.
type RegionResult struct {
	Index      int           `json:"index"`
	Region     Region        `json:"region"`
	Feasible   bool          `json:"feasible"`
	Placements []Placement   `json:"placements,omitempty"` // Witness tiling when feasible
	Area       AreaSummary   `json:"area"`
	Stats      SearchStats   `json:"stats"`
	Duration   time.Duration `json:"duration"`
}

// SolveResult holds every region outcome for a puzzle.
type SolveResult struct {
	Regions []RegionResult `json:"regions"`
}

// OK returns the number of regions with a feasible packing. This is the puzzle answer.
func (sr SolveResult) OK() int {
	n := 0
	for _, r := range sr.Regions {
		if r.Feasible {
			n++
		}
	}
	return n
}

// Failed returns the number of regions that cannot be packed.
func (sr SolveResult) Failed() int {
	return len(sr.Regions) - sr.OK()
}

// TotalDuration sums the per-region solve times.
func (sr SolveResult) TotalDuration() time.Duration {
	var total time.Duration
	for _, r := range sr.Regions {
		total += r.Duration
	}
	return total
}

// TotalNodes sums the search nodes over all regions.
func (sr SolveResult) TotalNodes() int {
	n := 0
	for _, r := range sr.Regions {
		n += r.Stats.Nodes
	}
	return n
}

// TotalMemoHits sums the memo hits over all regions.
func (sr SolveResult) TotalMemoHits() int {
	n := 0
	for _, r := range sr.Regions {
		n += r.Stats.MemoHits
	}
	return n
}

// Answers returns the per-region feasibility flags in input order.
func (sr SolveResult) Answers() []bool {
	out := make([]bool, len(sr.Regions))
	for i, r := range sr.Regions {
		out[i] = r.Feasible
	}
	return out
}
