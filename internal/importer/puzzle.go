package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/PresentPack/internal/model"
)

var (
	ErrNoShapes       = errors.New("no shapes parsed")
	ErrUnexpectedLine = errors.New("unexpected line")
	ErrShapeIDs       = errors.New("shape ids must be contiguous from 0")
	ErrEmptyShape     = errors.New("shape has no filled cells")
	ErrCountOverflow  = errors.New("more counts than known shapes")
)

var (
	shapeHeader = regexp.MustCompile(`^(\d+):$`)
	regionLine  = regexp.MustCompile(`^(\d+)x(\d+):\s*(.*)$`)
)

// ParsePuzzleFile reads and parses a puzzle input file.
func ParsePuzzleFile(path string) (model.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("open puzzle: %w", err)
	}
	defer f.Close()

	return ParsePuzzle(f)
}

// ParsePuzzle parses the puzzle text format from r.
func ParsePuzzle(r io.Reader) (model.Puzzle, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return model.Puzzle{}, fmt.Errorf("read puzzle: %w", err)
	}
	return ParseLines(lines)
}

// ParseLines parses shape blocks followed by region lines.
//
// A shape block is a "<id>:" header and one or more rows of '.' and '#',
// ended by a blank line or the next header. Region lines have the form
// "<W>x<H>: <c0> <c1> ...". Errors carry the 1-based line number.
func ParseLines(lines []string) (model.Puzzle, error) {
	raw := map[int][]string{}
	headerLine := map[int]int{}

	i := 0
	n := len(lines)
	for i < n {
		s := strings.TrimSpace(lines[i])
		if s == "" {
			i++
			continue
		}
		if regionLine.MatchString(s) {
			break
		}

		m := shapeHeader.FindStringSubmatch(s)
		if m == nil {
			return model.Puzzle{}, lineError(i, fmt.Errorf("%w while parsing shapes: %q", ErrUnexpectedLine, lines[i]))
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return model.Puzzle{}, lineError(i, fmt.Errorf("shape id %q: %w", m[1], err))
		}
		if _, dup := raw[id]; dup {
			return model.Puzzle{}, lineError(i, fmt.Errorf("%w: duplicate shape %d", ErrShapeIDs, id))
		}
		headerLine[id] = i
		i++

		var grid []string
		for i < n {
			row := strings.TrimSpace(lines[i])
			if row == "" {
				i++
				if len(grid) > 0 {
					break
				}
				continue
			}
			if row[0] != '.' && row[0] != '#' {
				break
			}
			grid = append(grid, row)
			i++
		}
		if len(grid) == 0 {
			return model.Puzzle{}, lineError(headerLine[id], fmt.Errorf("shape %d has no rows", id))
		}
		raw[id] = grid
	}

	if len(raw) == 0 {
		return model.Puzzle{}, ErrNoShapes
	}

	shapes := make([]model.Shape, len(raw))
	for id := range shapes {
		grid, ok := raw[id]
		if !ok {
			return model.Puzzle{}, fmt.Errorf("%w: missing shape %d", ErrShapeIDs, id)
		}
		shape := model.NewShape(id, grid)
		if shape.Area() == 0 {
			return model.Puzzle{}, lineError(headerLine[id], fmt.Errorf("%w: shape %d", ErrEmptyShape, id))
		}
		shapes[id] = shape
	}

	var regions []model.Region
	for ; i < n; i++ {
		s := strings.TrimSpace(lines[i])
		if s == "" {
			continue
		}
		r, err := parseRegion(s, len(shapes))
		if err != nil {
			return model.Puzzle{}, lineError(i, err)
		}
		r.Line = i + 1
		regions = append(regions, r)
	}

	return model.Puzzle{Shapes: shapes, Regions: regions}, nil
}

func parseRegion(s string, numShapes int) (model.Region, error) {
	m := regionLine.FindStringSubmatch(s)
	if m == nil {
		return model.Region{}, fmt.Errorf("%w while parsing regions: %q", ErrUnexpectedLine, s)
	}

	w, err := strconv.Atoi(m[1])
	if err != nil {
		return model.Region{}, fmt.Errorf("width %q: %w", m[1], err)
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return model.Region{}, fmt.Errorf("height %q: %w", m[2], err)
	}
	if w == 0 || h == 0 {
		return model.Region{}, fmt.Errorf("region %dx%d has no cells", w, h)
	}
	if err := model.CheckDimensions(w, h); err != nil {
		return model.Region{}, err
	}

	fields := strings.Fields(m[3])
	if len(fields) > numShapes {
		return model.Region{}, fmt.Errorf("%w: %d counts for %d shapes", ErrCountOverflow, len(fields), numShapes)
	}
	counts := make([]int, numShapes)
	for idx, f := range fields {
		c, err := strconv.Atoi(f)
		if err != nil {
			return model.Region{}, fmt.Errorf("count %d %q: %w", idx, f, err)
		}
		if c < 0 {
			return model.Region{}, fmt.Errorf("count %d is negative", idx)
		}
		counts[idx] = c
	}

	return model.Region{Width: w, Height: h, Counts: counts}, nil
}

func lineError(idx int, err error) error {
	return fmt.Errorf("line %d: %w", idx+1, err)
}
