package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/PresentPack/internal/model"
)

// ReportVersion is written into every report and checked on load.
const ReportVersion = "1.0.0"

// Report is the persisted record of one solve run.
type Report struct {
	Version    string              `json:"version"`
	RunID      string              `json:"run_id"`
	CreatedAt  string              `json:"created_at"`
	Input      string              `json:"input"`
	Settings   model.SolveSettings `json:"settings"`
	Shapes     []model.Shape       `json:"shapes"`
	Answer     int                 `json:"answer"`
	DurationMS float64             `json:"duration_ms"`
	Regions    []RegionSummary     `json:"regions"`
}

// RegionSummary is the per-region part of a Report.
type RegionSummary struct {
	Index    int               `json:"index"`
	Line     int               `json:"line,omitempty"`
	Size     string            `json:"size"`
	Counts   []int             `json:"counts"`
	Feasible bool              `json:"feasible"`
	Area     model.AreaSummary `json:"area"`
	Stats    model.SearchStats `json:"stats"`
	Tiling   []string          `json:"tiling,omitempty"`
}

// NewReport builds a report for a finished solve. render turns a feasible
// region into text rows; it may be nil to leave tilings out.
func NewReport(input string, settings model.SolveSettings, p model.Puzzle, result model.SolveResult, render func(model.RegionResult) []string) Report {
	r := Report{
		Version:    ReportVersion,
		RunID:      uuid.New().String(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Input:      input,
		Settings:   settings,
		Shapes:     p.Shapes,
		Answer:     result.OK(),
		DurationMS: float64(result.TotalDuration().Microseconds()) / 1000,
		Regions:    make([]RegionSummary, 0, len(result.Regions)),
	}
	for _, rr := range result.Regions {
		s := RegionSummary{
			Index:    rr.Index,
			Line:     rr.Region.Line,
			Size:     rr.Region.String(),
			Counts:   rr.Region.Counts,
			Feasible: rr.Feasible,
			Area:     rr.Area,
			Stats:    rr.Stats,
		}
		if render != nil && rr.Feasible {
			s.Tiling = render(rr)
		}
		r.Regions = append(r.Regions, s)
	}
	return r
}

// SaveReport writes a report as indented JSON, creating parent directories.
func SaveReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse report: %w", err)
	}
	if report.Version == "" {
		return Report{}, fmt.Errorf("invalid report: missing version field")
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		return Report{}, fmt.Errorf("invalid report run id %q: %w", report.RunID, err)
	}
	return report, nil
}
