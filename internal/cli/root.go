// Package cli implements the presentpack command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/PresentPack/internal/model"
	"github.com/piwi3910/PresentPack/internal/project"
)

// app carries state shared by every command.
type app struct {
	logger     *zap.Logger
	verbose    bool
	configPath string
}

// Option customizes the root command.
type Option func(*app)

// WithLogger makes the commands log to l instead of building a production logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *app) { a.logger = l }
}

// NewRootCmd builds the presentpack command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "presentpack",
		Short: "Decide which regions under the tree can hold their presents",
		Long: `presentpack reads present shapes and regions, and for every region decides
whether the requested presents can be placed without overlap. Presents may be
rotated and flipped. The answer is the number of regions that fit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if cfg, err := project.LoadAppConfig(a.configPath); err == nil && cfg.Verbose {
				a.verbose = true
			}
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "Path to the config file")

	root.AddCommand(newSolveCmd(a))
	root.AddCommand(newCompareCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newConfigCmd(a))

	return root
}

// loadConfig reads the config file and applies the --verbose flag.
func (a *app) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return model.AppConfig{}, err
	}
	if a.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// rememberInput records path in the recent inputs list. Failures are only logged.
func (a *app) rememberInput(cfg model.AppConfig, path string) {
	if path == "" {
		return
	}
	cfg.AddRecentInput(path)
	if err := project.SaveAppConfig(a.configPath, cfg); err != nil {
		a.logger.Warn("could not update recent inputs", zap.String("config", a.configPath), zap.Error(err))
	}
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
