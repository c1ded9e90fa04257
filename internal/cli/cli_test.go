package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/model"
	"github.com/piwi3910/PresentPack/internal/project"
)

// smallInput has an L-tromino and a domino; regions 2 and 3 fit.
const smallInput = `0:
#.
##

1:
##

3x3: 3 0
3x3: 0 4
2x3: 0 3
2x2: 0 3
`

type harness struct {
	dir    string
	config string
	input  string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte(smallInput), 0644))
	return harness{dir: dir, config: filepath.Join(dir, "config.yaml"), input: input}
}

func (h harness) run(args ...string) (string, error) {
	cmd := NewRootCmd(WithLogger(zap.NewNop()))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", h.config))
	err := cmd.Execute()
	return out.String(), err
}

func TestSolve_PrintsAnswer(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("solve", h.input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Part 1: 2 ("), out)
	assert.Contains(t, out, " ms)")
}

func TestSolve_SettingsFlagsKeepAnswer(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("solve", h.input, "--no-heuristic", "--no-memo", "--no-precheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Part 1: 2 (")
}

func TestSolve_Show(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("solve", h.input, "--show")
	require.NoError(t, err)
	assert.Contains(t, out, "Region 2 (3x3):")
	assert.Contains(t, out, "Region 3 (2x3):")
	assert.NotContains(t, out, "Region 1 (")
}

func TestSolve_WritesOutputs(t *testing.T) {
	h := newHarness(t)
	pdf := filepath.Join(h.dir, "report.pdf")
	labels := filepath.Join(h.dir, "labels.pdf")
	xlsx := filepath.Join(h.dir, "result.xlsx")
	dxfDir := filepath.Join(h.dir, "dxf")
	report := filepath.Join(h.dir, "run.json")

	_, err := h.run("solve", h.input,
		"--pdf", pdf, "--labels", labels, "--xlsx", xlsx, "--dxf-dir", dxfDir, "--report", report)
	require.NoError(t, err)

	for _, path := range []string{pdf, labels, xlsx, report} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	drawings, err := filepath.Glob(filepath.Join(dxfDir, "*.dxf"))
	require.NoError(t, err)
	assert.Len(t, drawings, 2)

	r, err := project.LoadReport(report)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Answer)
	require.Len(t, r.Regions, 4)
	assert.Len(t, r.Regions[1].Tiling, 3)
	assert.Nil(t, r.Regions[0].Tiling)
}

func TestSolve_ExportDirFromConfig(t *testing.T) {
	h := newHarness(t)
	exportDir := filepath.Join(h.dir, "exports")
	cfg := model.DefaultAppConfig()
	cfg.ExportDir = exportDir
	require.NoError(t, project.SaveAppConfig(h.config, cfg))

	_, err := h.run("solve", h.input, "--report", "run.json")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(exportDir, "run.json"))
	assert.NoError(t, err)
}

func TestSolve_RecordsRecentInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("solve", h.input)
	require.NoError(t, err)

	cfg, err := project.LoadAppConfig(h.config)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RecentInputs)
	assert.Equal(t, h.input, cfg.RecentInputs[0])
}

func TestSolve_RegionsOverride(t *testing.T) {
	h := newHarness(t)
	regions := filepath.Join(h.dir, "regions.csv")
	require.NoError(t, os.WriteFile(regions, []byte("width,height,s0,s1\n4,4,4,2\n5,2,2,2\n2,2,0,3\n"), 0644))

	out, err := h.run("solve", h.input, "--regions", regions)
	require.NoError(t, err)
	assert.Contains(t, out, "Part 1: 2 (")
}

func TestSolve_RegionsOverrideUnknownShape(t *testing.T) {
	h := newHarness(t)
	regions := filepath.Join(h.dir, "regions.csv")
	require.NoError(t, os.WriteFile(regions, []byte("w,h,s0,s1,s2\n4,4,1,1,1\n"), 0644))

	_, err := h.run("solve", h.input, "--regions", regions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shape")
}

func TestSolve_MalformedInput(t *testing.T) {
	h := newHarness(t)
	bad := filepath.Join(h.dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("0:\n#\n\n2:\n##\n"), 0644))

	_, err := h.run("solve", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contiguous")
}

func TestSolve_RequiresInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("solve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file is required")
}

func TestCompare(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("compare", h.input)
	require.NoError(t, err)
	for _, name := range []string{"Current Settings", "First Shape Order", "No Memo", "No Area Precheck"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "answers differ")
}

func TestConfig_InitSetShow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("config", "init")
	require.NoError(t, err)

	_, err = h.run("config", "set", "memoize", "false")
	require.NoError(t, err)
	_, err = h.run("config", "set", "export_dir", "/tmp/out")
	require.NoError(t, err)

	out, err := h.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "memoize: false")
	assert.Contains(t, out, "export_dir: /tmp/out")

	_, err = h.run("config", "set", "memoize", "maybe")
	assert.Error(t, err)
	_, err = h.run("config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestSetConfigValue(t *testing.T) {
	cfg := model.DefaultAppConfig()

	require.NoError(t, setConfigValue(&cfg, "most_constrained_first", "false"))
	require.NoError(t, setConfigValue(&cfg, "area_precheck", "0"))
	require.NoError(t, setConfigValue(&cfg, "verbose", "true"))

	assert.False(t, cfg.Solver.MostConstrainedFirst)
	assert.False(t, cfg.Solver.AreaPrecheck)
	assert.True(t, cfg.Solver.Memoize)
	assert.True(t, cfg.Verbose)
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(smallInput), 0644))

	changed := make(chan string, 4)
	w := NewWatcher([]string{path}, func(p string) { changed <- p }, nil)
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(smallInput+"3x3: 0 1\n"), 0644))

	select {
	case got := <-changed:
		assert.Equal(t, filepath.Base(path), filepath.Base(got))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
