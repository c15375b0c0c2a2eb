package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/ui"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the target database and its five tables",
	Long: `Create the target database if it does not exist and apply the schema.

The schema is created exactly once. Running init against a database that
already holds the tables fails with exit code 25; use --overwrite to drop and
recreate the database instead.

Examples:
  airroutes init -d airroutes
  airroutes init -d airroutes --overwrite
  airroutes init -d airroutes --overwrite --force
  airroutes init --connection "postgresql://admin@db.internal/postgres" -d airroutes`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

type initFlagValues struct {
	conn       connectionFlags
	overwrite  bool
	force      bool
	skipSchema bool
	timeout    time.Duration
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	registerConnectionFlags(initCmd, &initFlags.conn)
	initCmd.Flags().BoolVar(&initFlags.overwrite, "overwrite", false,
		"Drop and recreate the target database before applying the schema")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false,
		"Skip the interactive confirmation of --overwrite (DANGEROUS)")
	initCmd.Flags().BoolVar(&initFlags.skipSchema, "skip-schema", false,
		"Only create the database; do not create the tables")
	registerTimeoutFlag(initCmd, &initFlags.timeout)
}

func runInit(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(initFlags.conn, env.project, "init")
	if err != nil {
		return err
	}
	if env.verbose {
		logConnectionVerbose(env.logger, resolved, true)
	}

	timeout, err := resolveEffectiveTimeout(cmd, env.project, initFlags.timeout)
	if err != nil {
		return err
	}

	provisionConfig := airroutes.ProvisionConfig{
		Connection:          resolved.ConnConfig,
		MaintenanceDatabase: resolved.MaintenanceDB,
		Overwrite:           initFlags.overwrite,
		Force:               initFlags.force,
		SkipSchema:          initFlags.skipSchema,
		Timeout:             timeout,
		Verbose:             env.verbose,
	}
	if err := provisionConfig.Validate(); err != nil {
		return err
	}

	ctx, cancel := commandContext(timeout, "init")
	defer cancel()

	svc := newDatasetService(env, ui.NewApprover(initFlags.force, env.verbose))
	result, err := svc.Provision(ctx, provisionConfig)
	if err != nil {
		return err
	}

	printProvisionResult(result)
	return nil
}

func printProvisionResult(r *airroutes.ProvisionResult) {
	switch {
	case r.Dropped:
		fmt.Fprintln(os.Stdout, ui.SuccessStyle.Render(fmt.Sprintf("%s Recreated database '%s'", ui.SymbolCheck, r.Database)))
	case r.Created:
		fmt.Fprintln(os.Stdout, ui.SuccessStyle.Render(fmt.Sprintf("%s Created database '%s'", ui.SymbolCheck, r.Database)))
	default:
		fmt.Fprintln(os.Stdout, ui.MutedStyle.Render(fmt.Sprintf("Database '%s' already exists", r.Database)))
	}
	if r.SchemaApplied {
		fmt.Fprintln(os.Stdout, ui.SuccessStyle.Render(ui.SymbolCheck+" Schema applied"))
	}
}
