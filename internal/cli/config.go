package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PresentPack/internal/model"
	"github.com/piwi3910/PresentPack/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "# %s\n%s", a.configPath, data)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.SaveAppConfig(a.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Keys: most_constrained_first, memoize, area_precheck, export_dir, verbose.
Boolean settings take true or false.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return err
			}
			if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := project.SaveAppConfig(a.configPath, cfg); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

func setConfigValue(cfg *model.AppConfig, key, value string) error {
	if key == "export_dir" {
		cfg.ExportDir = value
		return nil
	}

	var target *bool
	switch key {
	case "most_constrained_first":
		target = &cfg.Solver.MostConstrainedFirst
	case "memoize":
		target = &cfg.Solver.Memoize
	case "area_precheck":
		target = &cfg.Solver.AreaPrecheck
	case "verbose":
		target = &cfg.Verbose
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = b
	return nil
}
