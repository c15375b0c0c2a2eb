package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the load stage and row counts of the target database",
	Long: `Show how far the target database has been loaded.

Stages: Empty → SchemaCreated → CountriesLoaded → AirlinesAndAirportsLoaded
→ PlanesLoaded → RoutesLoaded.

Examples:
  airroutes status -d airroutes`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

type statusFlagValues struct {
	conn    connectionFlags
	timeout time.Duration
}

var statusFlags statusFlagValues

func init() {
	rootCmd.AddCommand(statusCmd)

	registerConnectionFlags(statusCmd, &statusFlags.conn)
	statusCmd.Flags().DurationVar(&statusFlags.timeout, "timeout", 30*time.Second,
		"Timeout for the status queries")
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(statusFlags.conn, env.project, "status")
	if err != nil {
		return err
	}
	if env.verbose {
		logConnectionVerbose(env.logger, resolved, false)
	}

	ctx, cancel := commandContext(statusFlags.timeout, "status")
	defer cancel()

	svc := newDatasetService(env, ui.NewApprover(false, env.verbose))
	result, err := svc.Status(ctx, resolved.ConnConfig)
	if err != nil {
		return err
	}

	ui.PrintStatus(os.Stdout, result)
	return nil
}
