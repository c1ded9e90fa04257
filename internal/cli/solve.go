package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/engine"
	"github.com/piwi3910/PresentPack/internal/export"
	"github.com/piwi3910/PresentPack/internal/model"
	"github.com/piwi3910/PresentPack/internal/project"
)

type solveFlags struct {
	input inputFlags

	pdf    string
	labels string
	xlsx   string
	dxfDir string
	report string
	show   bool

	noHeuristic bool
	noMemo      bool
	noPrecheck  bool
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve [input]",
		Short: "Count the regions that can hold all their presents",
		Long: `Solves every region of the input and prints the number of regions whose
presents fit. Reports, labels, workbooks and drawings of the tilings are
written when the matching flags are given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSolve(cmd.OutOrStdout(), firstArg(args), f)
		},
	}

	cmd.Flags().StringVar(&f.input.regions, "regions", "", "CSV or Excel table of regions to use instead of the input's")
	cmd.Flags().StringVar(&f.input.shapes, "shapes", "", "DXF drawing of shapes to use instead of the input's")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "Write a PDF report of the tilings")
	cmd.Flags().StringVar(&f.labels, "labels", "", "Write a PDF of QR-coded present labels")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "Write an Excel workbook of the results")
	cmd.Flags().StringVar(&f.dxfDir, "dxf-dir", "", "Write one DXF drawing per fitting region into this directory")
	cmd.Flags().StringVar(&f.report, "report", "", "Write a JSON run report")
	cmd.Flags().BoolVar(&f.show, "show", false, "Print the tiling of every fitting region")
	cmd.Flags().BoolVar(&f.noHeuristic, "no-heuristic", false, "Branch on shapes in id order instead of most constrained first")
	cmd.Flags().BoolVar(&f.noMemo, "no-memo", false, "Disable the failed-state memo")
	cmd.Flags().BoolVar(&f.noPrecheck, "no-precheck", false, "Disable the area precheck")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (f *solveFlags) settings(base model.SolveSettings) model.SolveSettings {
	if f.noHeuristic {
		base.MostConstrainedFirst = false
	}
	if f.noMemo {
		base.Memoize = false
	}
	if f.noPrecheck {
		base.AreaPrecheck = false
	}
	return base
}

func (a *app) runSolve(out io.Writer, path string, f *solveFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	p, err := loadPuzzle(path, f.input, a.logger)
	if err != nil {
		return err
	}

	settings := f.settings(cfg.Solver)
	start := time.Now()
	result, err := engine.New(settings, a.logger).Solve(p)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printf(out, "Part 1: %d (%.3f ms)\n", result.OK(), float64(elapsed.Microseconds())/1000)

	if f.show {
		for _, rr := range result.Regions {
			if !rr.Feasible {
				continue
			}
			printf(out, "\nRegion %d (%s):\n%s", rr.Index+1, rr.Region, export.RenderTiling(rr))
		}
	}

	if err := a.writeOutputs(cfg, path, settings, p, result, f); err != nil {
		return err
	}

	a.rememberInput(cfg, absPath(path))
	return nil
}

// writeOutputs runs every export requested by flags. Relative paths are
// resolved against the configured export directory when one is set.
func (a *app) writeOutputs(cfg model.AppConfig, input string, settings model.SolveSettings, p model.Puzzle, result model.SolveResult, f *solveFlags) error {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) || cfg.ExportDir == "" {
			return path
		}
		return filepath.Join(cfg.ExportDir, path)
	}

	if path := resolve(f.pdf); path != "" {
		if err := export.ExportPDF(path, result, p); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		a.logger.Info("wrote report", zap.String("path", path))
	}

	if path := resolve(f.labels); path != "" {
		if result.OK() == 0 {
			a.logger.Warn("no region fits, skipping labels")
		} else {
			if err := export.ExportLabels(path, result); err != nil {
				return fmt.Errorf("label export: %w", err)
			}
			a.logger.Info("wrote labels", zap.String("path", path))
		}
	}

	if path := resolve(f.xlsx); path != "" {
		if err := export.ExportXLSX(path, result, p); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		a.logger.Info("wrote workbook", zap.String("path", path))
	}

	if dir := resolve(f.dxfDir); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		for _, rr := range result.Regions {
			if !rr.Feasible {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("region-%03d.dxf", rr.Index+1))
			if err := export.ExportDXF(path, rr); err != nil {
				return fmt.Errorf("dxf export: %w", err)
			}
		}
		a.logger.Info("wrote drawings", zap.String("dir", dir), zap.Int("count", result.OK()))
	}

	if path := resolve(f.report); path != "" {
		report := project.NewReport(absPath(input), settings, p, result, tilingRows)
		if err := project.SaveReport(path, report); err != nil {
			return err
		}
		a.logger.Info("wrote run report", zap.String("path", path), zap.String("run_id", report.RunID))
	}

	return nil
}

func tilingRows(rr model.RegionResult) []string {
	return strings.Split(strings.TrimSuffix(export.RenderTiling(rr), "\n"), "\n")
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
