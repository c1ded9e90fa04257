package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/PresentPack/internal/model"
)

func testReport() Report {
	p := model.Puzzle{Shapes: []model.Shape{model.NewShape(0, []string{"##"})}}
	result := model.SolveResult{Regions: []model.RegionResult{
		{
			Index:    0,
			Region:   model.Region{Width: 2, Height: 1, Counts: []int{1}, Line: 4},
			Feasible: true,
			Area:     model.AreaSummary{RequiredArea: 2, BoardArea: 2, FillPercent: 100},
			Stats:    model.SearchStats{Nodes: 2},
			Duration: 1500 * time.Microsecond,
		},
		{
			Index:    1,
			Region:   model.Region{Width: 1, Height: 1, Counts: []int{1}, Line: 5},
			Area:     model.AreaSummary{RequiredArea: 2, BoardArea: 1, Overflow: true},
			Stats:    model.SearchStats{Precheck: true},
			Duration: 500 * time.Microsecond,
		},
	}}
	render := func(rr model.RegionResult) []string { return []string{"AA"} }
	return NewReport("input.txt", model.DefaultSettings(), p, result, render)
}

func TestNewReport(t *testing.T) {
	r := testReport()

	if r.Version != ReportVersion {
		t.Errorf("expected version %s, got %s", ReportVersion, r.Version)
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		t.Errorf("run id is not a UUID: %v", err)
	}
	if r.Answer != 1 {
		t.Errorf("expected answer 1, got %d", r.Answer)
	}
	if r.DurationMS != 2 {
		t.Errorf("expected 2 ms, got %v", r.DurationMS)
	}
	if len(r.Regions) != 2 {
		t.Fatalf("expected 2 region summaries, got %d", len(r.Regions))
	}
	if r.Regions[0].Size != "2x1" || r.Regions[0].Line != 4 {
		t.Errorf("unexpected first summary: %+v", r.Regions[0])
	}
	if len(r.Regions[0].Tiling) != 1 {
		t.Error("expected a tiling for the feasible region")
	}
	if r.Regions[1].Tiling != nil {
		t.Error("infeasible regions should not carry a tiling")
	}
}

func TestNewReport_UniqueRunIDs(t *testing.T) {
	if testReport().RunID == testReport().RunID {
		t.Error("expected a fresh run id per report")
	}
}

func TestSaveAndLoadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	want := testReport()

	if err := SaveReport(path, want); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	got, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if got.RunID != want.RunID || got.Answer != want.Answer || got.Input != "input.txt" {
		t.Errorf("report changed on reload: %+v", got)
	}
	if !got.Regions[1].Area.Overflow || !got.Regions[1].Stats.Precheck {
		t.Errorf("region details lost on reload: %+v", got.Regions[1])
	}
	if len(got.Shapes) != 1 || got.Shapes[0].Area() != 2 {
		t.Errorf("shapes lost on reload: %+v", got.Shapes)
	}
}

func TestLoadReportMissingFile(t *testing.T) {
	if _, err := LoadReport(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadReportInvalid(t *testing.T) {
	tests := map[string]string{
		"bad json":   "{not json}",
		"no version": `{"run_id": "` + uuid.NewString() + `"}`,
		"bad run id": `{"version": "1.0.0", "run_id": "run-1"}`,
	}
	for name, body := range tests {
		t.Run(strings.ReplaceAll(name, " ", "_"), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.json")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadReport(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
