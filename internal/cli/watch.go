package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Watcher calls OnChange after a watched file is written, created or
// renamed into place. Bursts of events within Debounce collapse into one call.
type Watcher struct {
	Files    []string
	Debounce time.Duration
	OnChange func(path string)

	logger *zap.Logger
}

// NewWatcher returns a watcher for the given files.
func NewWatcher(files []string, onChange func(string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		Files:    files,
		Debounce: 200 * time.Millisecond,
		OnChange: onChange,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled. Parent directories are watched so
// editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !targets[name] {
				continue
			}
			pending[name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			for name, at := range pending {
				if now.Sub(at) < w.Debounce {
					continue
				}
				delete(pending, name)
				w.OnChange(name)
			}
		}
	}
}

func newWatchCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Solve the input again every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			input := args[0]

			solve := func() {
				if err := a.runSolve(out, input, f); err != nil {
					printf(out, "error: %v\n", err)
				}
			}
			solve()

			files := []string{input}
			for _, extra := range []string{f.input.regions, f.input.shapes} {
				if extra != "" {
					files = append(files, extra)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("watching for changes", zap.Strings("files", files))
			return NewWatcher(files, func(path string) {
				a.logger.Debug("input changed", zap.String("path", path))
				solve()
			}, a.logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&f.input.regions, "regions", "", "CSV or Excel table of regions to use instead of the input's")
	cmd.Flags().StringVar(&f.input.shapes, "shapes", "", "DXF drawing of shapes to use instead of the input's")
	cmd.Flags().BoolVar(&f.show, "show", false, "Print the tiling of every fitting region")
	return cmd
}
