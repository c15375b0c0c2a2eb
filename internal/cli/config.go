package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/tui"
	"github.com/vvka-141/airroutes/internal/ui"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective airroutes.yaml",
	Long: `Print the project configuration after applying AIRROUTES_* environment
variables and defaults. With --write the result is saved to
<config-dir>/airroutes.yaml. --wizard asks for the connection and data
settings on the terminal and saves them.

Examples:
  airroutes config
  airroutes config --wizard
  AIRROUTES_DATABASE=airroutes airroutes config --write`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

type configFlagValues struct {
	write  bool
	force  bool
	wizard bool
}

var configFlags configFlagValues

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configFlags.write, "write", false,
		"Save the effective configuration to <config-dir>/airroutes.yaml")
	configCmd.Flags().BoolVar(&configFlags.force, "force", false,
		"Overwrite an existing airroutes.yaml with --write or --wizard")
	configCmd.Flags().BoolVar(&configFlags.wizard, "wizard", false,
		"Prompt for the connection and data settings, then save them")
}

func runConfig(cmd *cobra.Command, args []string) error {
	dir := getConfigDir(cmd)
	projectCfg, err := loadProjectConfig(dir)
	if err != nil {
		return err
	}

	if !configFlags.write && !configFlags.wizard {
		data, err := config.Marshal(projectCfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !configFlags.force {
		return fmt.Errorf("%s already exists (use --force to overwrite): %w", path, airroutes.ErrInvalidConfig)
	}

	if configFlags.wizard {
		if !ui.IsInteractive() {
			return fmt.Errorf("--wizard needs an interactive terminal: %w", airroutes.ErrInvalidConfig)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		projectCfg, err = tui.RunConfigWizard(ctx, *projectCfg)
		if err != nil {
			return err
		}
	}

	if err := config.Save(dir, projectCfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
