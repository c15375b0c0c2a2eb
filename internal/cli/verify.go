package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/ui"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check referential integrity of the loaded data",
	Long: `Run integrity checks against the loaded tables and read back a few routes
through their joins.

Each check counts the rows whose references do not resolve, for example routes
whose equipment code has no plane. Any violation exits with code 27.

Examples:
  airroutes verify -d airroutes
  airroutes verify -d airroutes --samples 0`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

type verifyFlagValues struct {
	conn    connectionFlags
	samples int
	timeout time.Duration
}

var verifyFlags verifyFlagValues

func init() {
	rootCmd.AddCommand(verifyCmd)

	registerConnectionFlags(verifyCmd, &verifyFlags.conn)
	verifyCmd.Flags().IntVar(&verifyFlags.samples, "samples", 5,
		"Number of joined routes to print once routes are loaded (0 disables)")
	registerTimeoutFlag(verifyCmd, &verifyFlags.timeout)
}

func runVerify(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(verifyFlags.conn, env.project, "verify")
	if err != nil {
		return err
	}
	if env.verbose {
		logConnectionVerbose(env.logger, resolved, false)
	}

	timeout, err := resolveEffectiveTimeout(cmd, env.project, verifyFlags.timeout)
	if err != nil {
		return err
	}

	verifyConfig := airroutes.VerifyConfig{
		Connection: resolved.ConnConfig,
		Samples:    verifyFlags.samples,
		Timeout:    timeout,
	}
	if err := verifyConfig.Validate(); err != nil {
		return err
	}

	ctx, cancel := commandContext(timeout, "verify")
	defer cancel()

	svc := newDatasetService(env, ui.NewApprover(false, env.verbose))
	result, err := svc.Verify(ctx, verifyConfig)
	if result != nil {
		ui.PrintVerifyResult(os.Stdout, result)
	}
	return err
}
