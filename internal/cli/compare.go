package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PresentPack/internal/engine"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
)

func newCompareCmd(a *app) *cobra.Command {
	in := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "compare [input]",
		Short: "Solve with each search aid switched off in turn and compare the work done",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd.OutOrStdout(), firstArg(args), *in)
		},
	}
	cmd.Flags().StringVar(&in.regions, "regions", "", "CSV or Excel table of regions to use instead of the input's")
	cmd.Flags().StringVar(&in.shapes, "shapes", "", "DXF drawing of shapes to use instead of the input's")
	return cmd
}

func (a *app) runCompare(out io.Writer, path string, in inputFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	p, err := loadPuzzle(path, in, a.logger)
	if err != nil {
		return err
	}

	results, err := engine.CompareScenarios(engine.BuildDefaultScenarios(cfg.Solver), p, a.logger)
	if err != nil {
		return err
	}

	printf(out, "%s", renderComparison(results))

	if bad := engine.Disagreements(results); len(bad) > 0 {
		printf(out, "%s\n", errStyle.Render("answers differ: "+strings.Join(bad, ", ")))
		return fmt.Errorf("%d scenario(s) disagree with %q", len(bad), results[0].Scenario.Name)
	}
	a.rememberInput(cfg, absPath(path))
	return nil
}

// renderComparison lays out one row per scenario in fixed-width columns.
func renderComparison(results []engine.ComparisonResult) string {
	widths := []int{20, 8, 12, 12, 14}
	cell := func(w int, s string, style lipgloss.Style) string {
		return style.Width(w).Render(s)
	}

	var sb strings.Builder
	for i, h := range []string{"Scenario", "Fit", "Nodes", "Memo Hits", "Time"} {
		sb.WriteString(cell(widths[i], h, headerStyle))
	}
	sb.WriteByte('\n')

	var base []bool
	for i, r := range results {
		style := lipgloss.NewStyle()
		if i == 0 {
			base = r.Result.Answers()
		} else if !slices.Equal(base, r.Result.Answers()) {
			style = errStyle
		} else {
			style = okStyle
		}
		sb.WriteString(cell(widths[0], r.Scenario.Name, style))
		sb.WriteString(cell(widths[1], fmt.Sprintf("%d", r.OK), lipgloss.NewStyle()))
		sb.WriteString(cell(widths[2], fmt.Sprintf("%d", r.TotalNodes), lipgloss.NewStyle()))
		sb.WriteString(cell(widths[3], fmt.Sprintf("%d", r.MemoHits), lipgloss.NewStyle()))
		sb.WriteString(cell(widths[4], r.Duration.String(), lipgloss.NewStyle()))
		sb.WriteByte('\n')
	}
	return sb.String()
}
