package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/model"
)

// ErrUnknownShape is returned when a region requests a shape id that does not exist.
var ErrUnknownShape = errors.New("region requests an unknown shape")

// Solver decides, region by region, whether the requested presents can be
// placed without overlap.
type Solver struct {
	Settings model.SolveSettings
	logger   *zap.Logger
}

// New creates a solver. A nil logger disables logging.
func New(settings model.SolveSettings, logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{Settings: settings, logger: logger}
}

// Solve solves every region of the puzzle in input order.
func (s *Solver) Solve(p model.Puzzle) (model.SolveResult, error) {
	table := NewShapeTable(p.Shapes)

	for i, r := range p.Regions {
		if err := ValidateRegion(r, table.Len()); err != nil {
			return model.SolveResult{}, fmt.Errorf("region %d (%s): %w", i+1, r, err)
		}
	}

	result := model.SolveResult{Regions: make([]model.RegionResult, 0, len(p.Regions))}
	for i, r := range p.Regions {
		rr, err := s.SolveRegion(i, r, table)
		if err != nil {
			return model.SolveResult{}, err
		}
		result.Regions = append(result.Regions, rr)
	}

	s.logger.Info("puzzle solved",
		zap.Int("shapes", table.Len()),
		zap.Int("regions", len(result.Regions)),
		zap.Int("ok", result.OK()),
		zap.Int("nodes", result.TotalNodes()),
		zap.Duration("elapsed", result.TotalDuration()),
	)
	return result, nil
}

// CanFit reports whether the region's presents fit.
func (s *Solver) CanFit(r model.Region, table ShapeTable) (bool, error) {
	rr, err := s.SolveRegion(0, r, table)
	if err != nil {
		return false, err
	}
	return rr.Feasible, nil
}

// ValidateRegion checks the region against the number of known shapes.
func ValidateRegion(r model.Region, numShapes int) error {
	if err := model.CheckDimensions(r.Width, r.Height); err != nil {
		return err
	}
	if len(r.Counts) > numShapes {
		for id := numShapes; id < len(r.Counts); id++ {
			if r.Counts[id] != 0 {
				return fmt.Errorf("%w: shape %d (only %d shapes defined)", ErrUnknownShape, id, numShapes)
			}
		}
	}
	for id, c := range r.Counts {
		if c < 0 {
			return fmt.Errorf("negative count %d for shape %d", c, id)
		}
	}
	return nil
}

// SolveRegion runs the search for one region. index is only used for
// reporting.
func (s *Solver) SolveRegion(index int, r model.Region, table ShapeTable) (model.RegionResult, error) {
	if err := ValidateRegion(r, table.Len()); err != nil {
		return model.RegionResult{}, fmt.Errorf("region %d (%s): %w", index+1, r, err)
	}

	start := time.Now()
	result := model.RegionResult{
		Index:  index,
		Region: r,
		Area:   model.CalculateAreaSummary(r, table.Areas),
	}

	feasible, placements, stats := s.search(r, table)
	result.Feasible = feasible
	result.Placements = placements
	result.Stats = stats
	result.Duration = time.Since(start)

	s.logger.Debug("region solved",
		zap.Int("region", index+1),
		zap.String("size", r.String()),
		zap.Int("presents", r.Presents()),
		zap.Bool("feasible", feasible),
		zap.Bool("precheck", stats.Precheck),
		zap.Int("nodes", stats.Nodes),
		zap.Int("memo_hits", stats.MemoHits),
		zap.Duration("elapsed", result.Duration),
	)
	return result, nil
}

func (s *Solver) search(r model.Region, table ShapeTable) (bool, []model.Placement, model.SearchStats) {
	n := table.Len()
	counts := r.PaddedCounts(n)

	required := 0
	for i, c := range counts {
		required += c * table.Areas[i]
	}
	if required == 0 {
		return true, nil, model.SearchStats{Precheck: true}
	}
	if s.Settings.AreaPrecheck && required > r.BoardArea() {
		return false, nil, model.SearchStats{Precheck: true}
	}

	placements := make([][]model.Placement, n)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		placements[i] = EnumeratePlacements(r.Width, r.Height, i, table.Orientations[i])
		if len(placements[i]) == 0 {
			return false, nil, model.SearchStats{Precheck: true}
		}
	}

	st := &searchState{
		settings:   s.Settings,
		board:      r.BoardArea(),
		areas:      table.Areas,
		placements: placements,
	}
	if s.Settings.Memoize {
		st.memo = make(map[string]struct{})
	}

	ok := st.dfs(bitset.New(uint(r.BoardArea())), counts)
	st.stats.MemoSize = len(st.memo)

	var witness []model.Placement
	if ok {
		witness = make([]model.Placement, len(st.path))
		copy(witness, st.path)
	}
	return ok, witness, st.stats
}

// searchState is the per-region backtracking state. The memo only records
// failed states: a success unwinds the whole search immediately.
type searchState struct {
	settings   model.SolveSettings
	board      int
	areas      []int
	placements [][]model.Placement
	memo       map[string]struct{}
	path       []model.Placement
	keyBuf     []byte
	stats      model.SearchStats
}

func (st *searchState) dfs(occupied *bitset.BitSet, remaining []int) bool {
	var key string
	if st.memo != nil {
		key = st.stateKey(occupied, remaining)
		if _, failed := st.memo[key]; failed {
			st.stats.MemoHits++
			return false
		}
	}
	st.stats.Nodes++

	remainingArea := 0
	for i, c := range remaining {
		remainingArea += c * st.areas[i]
	}
	if remainingArea == 0 {
		return true
	}

	if remainingArea > st.board-int(occupied.Count()) {
		return st.fail(key)
	}

	best := -1
	var bestOpts []model.Placement
	for i, c := range remaining {
		if c == 0 {
			continue
		}
		opts := legalPlacements(st.placements[i], occupied)
		if len(opts) == 0 {
			return st.fail(key)
		}
		if best < 0 || len(opts) < len(bestOpts) {
			best = i
			bestOpts = opts
		}
		if !st.settings.MostConstrainedFirst || len(bestOpts) == 1 {
			break
		}
	}

	remaining[best]--
	for _, p := range bestOpts {
		occupied.InPlaceUnion(p.Mask)
		st.path = append(st.path, p)
		if st.dfs(occupied, remaining) {
			remaining[best]++
			return true
		}
		st.path = st.path[:len(st.path)-1]
		occupied.InPlaceDifference(p.Mask)
	}
	remaining[best]++

	if st.memo != nil {
		st.memo[key] = struct{}{}
	}
	return false
}

// fail records a pruned state.
func (st *searchState) fail(key string) bool {
	st.stats.DeadEnds++
	if st.memo != nil {
		st.memo[key] = struct{}{}
	}
	return false
}

// stateKey encodes the occupied words followed by the remaining counts.
func (st *searchState) stateKey(occupied *bitset.BitSet, remaining []int) string {
	buf := st.keyBuf[:0]
	for _, w := range occupied.Bytes() {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	for _, c := range remaining {
		buf = binary.AppendUvarint(buf, uint64(c))
	}
	st.keyBuf = buf
	return string(buf)
}

// legalPlacements filters placements that do not overlap the occupied cells.
func legalPlacements(all []model.Placement, occupied *bitset.BitSet) []model.Placement {
	var out []model.Placement
	for _, p := range all {
		if p.Mask.IntersectionCardinality(occupied) == 0 {
			out = append(out, p)
		}
	}
	return out
}
