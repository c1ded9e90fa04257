package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PresentPack/internal/model"
)

// gridTolerance is how far a vertex may sit from a grid point and still be
// snapped onto it.
const gridTolerance = 0.01

type point struct {
	X, Y float64
}

type outline []point

// segment is a line between two points, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportShapesDXF imports present shapes from a DXF drawing. Each closed
// LWPOLYLINE or closed chain of LINEs, drawn on a unit grid, becomes one
// shape. A cell belongs to the shape when its centre lies inside the
// outline. Shape ids are assigned from startID in outline order.
func ImportShapesDXF(path string, startID int) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o, closed := lwPolylineToOutline(e)
			if !closed {
				result.Warnings = append(result.Warnings, "Skipped open LWPOLYLINE; shape outlines must be closed")
				continue
			}
			if len(o) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			if hasBulge(e) {
				result.Warnings = append(result.Warnings, "LWPOLYLINE arcs are read as straight edges")
			}
			outlines = append(outlines, o)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle, *entity.Arc:
			result.Warnings = append(result.Warnings, "Skipped curved entity; shapes must be drawn on the grid")
		}
	}

	chained, open := chainSegments(segments, gridTolerance)
	outlines = append(outlines, chained...)
	if open > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d open LINE chain(s)", open))
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sortOutlines(outlines)

	id := startID
	for n, o := range outlines {
		normalized, snapped := snapToGrid(normalizeOutline(o))
		if snapped {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Outline %d has off-grid vertices; snapped to the nearest cell corner", n+1))
		}

		rows := rasterize(normalized)
		shape := model.NewShape(id, rows)
		if shape.Area() == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped outline %d: it covers no cell centres", n+1))
			continue
		}
		result.Shapes = append(result.Shapes, shape)
		id++
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline,
// dropping a repeated closing vertex. The polyline counts as closed when
// its closed flag is set or its last vertex repeats the first.
func lwPolylineToOutline(lw *entity.LwPolyline) (outline, bool) {
	o := make(outline, 0, len(lw.Vertices))
	for _, v := range lw.Vertices {
		o = append(o, point{X: v[0], Y: v[1]})
	}
	closed := lw.Closed
	if len(o) > 1 && pointsClose(o[0], o[len(o)-1], gridTolerance) {
		o = o[:len(o)-1]
		closed = true
	}
	return o, closed
}

func hasBulge(lw *entity.LwPolyline) bool {
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return true
		}
	}
	return false
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them
// connected. It also returns the number of chains that did not close.
func chainSegments(segs []segment, tolerance float64) ([]outline, int) {
	if len(segs) == 0 {
		return nil, 0
	}

	used := make([]bool, len(segs))
	var outlines []outline
	open := 0

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		} else {
			open++
		}
	}

	return outlines, open
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

func (o outline) boundingBox() (min, max point) {
	min = point{X: math.Inf(1), Y: math.Inf(1)}
	max = point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range o {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// sortOutlines orders outlines left to right, then bottom to top, so shape
// ids follow the drawing layout.
func sortOutlines(outlines []outline) {
	sort.SliceStable(outlines, func(i, j int) bool {
		a, _ := outlines[i].boundingBox()
		b, _ := outlines[j].boundingBox()
		if math.Abs(a.X-b.X) > gridTolerance {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o outline) outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.boundingBox()
	out := make(outline, len(o))
	for i, p := range o {
		out[i] = point{X: p.X - min.X, Y: p.Y - min.Y}
	}
	return out
}

// snapToGrid rounds every vertex to the nearest integer point and reports
// whether any vertex moved further than gridTolerance.
func snapToGrid(o outline) (outline, bool) {
	moved := false
	out := make(outline, len(o))
	for i, p := range o {
		q := point{X: math.Round(p.X), Y: math.Round(p.Y)}
		if !pointsClose(p, q, gridTolerance) {
			moved = true
		}
		out[i] = q
	}
	return out, moved
}

// rasterize returns the grid rows covered by a normalized outline. DXF Y
// grows upwards, so the top row of the result is the highest cell row.
func rasterize(o outline) []string {
	_, max := o.boundingBox()
	w := int(math.Round(max.X))
	h := int(math.Round(max.Y))

	rows := make([]string, h)
	for row := 0; row < h; row++ {
		var sb strings.Builder
		cy := float64(h-1-row) + 0.5
		for col := 0; col < w; col++ {
			if containsPoint(o, point{X: float64(col) + 0.5, Y: cy}) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[row] = sb.String()
	}
	return rows
}

// containsPoint is the even-odd ray casting test.
func containsPoint(o outline, p point) bool {
	inside := false
	for i, j := 0, len(o)-1; i < len(o); j, i = i, i+1 {
		a, b := o[i], o[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
