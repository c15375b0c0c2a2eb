package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/ui"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every loaded row, keeping the schema",
	Long: `Delete the rows of all five tables in reverse foreign-key order inside one
transaction. The tables stay in place, so the next 'airroutes load' starts
from the first step again.

reset asks for the database name as confirmation. With --force it counts
down instead; without a terminal it refuses unless --force is given.

Examples:
  airroutes reset -d airroutes
  airroutes reset -d airroutes --force`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

type resetFlagValues struct {
	conn    connectionFlags
	force   bool
	timeout time.Duration
}

var resetFlags resetFlagValues

func init() {
	rootCmd.AddCommand(resetCmd)

	registerConnectionFlags(resetCmd, &resetFlags.conn)
	resetCmd.Flags().BoolVar(&resetFlags.force, "force", false,
		"Skip the interactive confirmation (DANGEROUS)")
	registerTimeoutFlag(resetCmd, &resetFlags.timeout)
}

func runReset(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(resetFlags.conn, env.project, "reset")
	if err != nil {
		return err
	}
	if env.verbose {
		logConnectionVerbose(env.logger, resolved, false)
	}

	timeout, err := resolveEffectiveTimeout(cmd, env.project, resetFlags.timeout)
	if err != nil {
		return err
	}

	resetConfig := airroutes.ResetConfig{
		Connection: resolved.ConnConfig,
		Force:      resetFlags.force,
		Timeout:    timeout,
	}
	if err := resetConfig.Validate(); err != nil {
		return err
	}

	ctx, cancel := commandContext(timeout, "reset")
	defer cancel()

	svc := newDatasetService(env, ui.NewApprover(resetFlags.force, env.verbose))
	result, err := svc.Reset(ctx, resetConfig)
	if err != nil {
		return err
	}

	ui.PrintResetResult(os.Stdout, result)
	return nil
}
