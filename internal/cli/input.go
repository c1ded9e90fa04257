package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/importer"
	"github.com/piwi3910/PresentPack/internal/model"
)

// inputFlags select where shapes and regions come from.
type inputFlags struct {
	regions string // CSV or Excel region table replacing the input's regions
	shapes  string // DXF drawing replacing the input's shapes
}

// loadPuzzle reads the puzzle text at path (optional when both overrides
// are set) and applies the region and shape overrides.
func loadPuzzle(path string, in inputFlags, logger *zap.Logger) (model.Puzzle, error) {
	var p model.Puzzle
	if path != "" {
		var err error
		p, err = importer.ParsePuzzleFile(path)
		if err != nil {
			return model.Puzzle{}, fmt.Errorf("%s: %w", path, err)
		}
	} else if in.regions == "" || in.shapes == "" {
		return model.Puzzle{}, fmt.Errorf("an input file is required unless both --shapes and --regions are given")
	}

	if in.shapes != "" {
		res := importer.ImportShapesDXF(in.shapes, 0)
		if err := importErrors(in.shapes, res, logger); err != nil {
			return model.Puzzle{}, err
		}
		p.Shapes = res.Shapes
	}

	if in.regions != "" {
		var res importer.ImportResult
		switch strings.ToLower(filepath.Ext(in.regions)) {
		case ".xlsx", ".xlsm", ".xls":
			res = importer.ImportRegionsExcel(in.regions)
		default:
			res = importer.ImportRegionsCSV(in.regions)
		}
		if err := importErrors(in.regions, res, logger); err != nil {
			return model.Puzzle{}, err
		}
		p.Regions = res.Regions
	}

	if len(p.Shapes) == 0 {
		return model.Puzzle{}, importer.ErrNoShapes
	}
	return p, nil
}

// importErrors logs import warnings and turns import errors into one error.
func importErrors(path string, res importer.ImportResult, logger *zap.Logger) error {
	for _, w := range res.Warnings {
		logger.Debug("import warning", zap.String("file", path), zap.String("warning", w))
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: %s", path, strings.Join(res.Errors, "; "))
	}
	return nil
}
