package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var rootCmd = &cobra.Command{
	Use:   "airroutes",
	Short: "Provision and bulk-load the airline route dataset into PostgreSQL",
	Long: `airroutes creates the countries, airlines, airports, planes and routes
tables and loads their .dat files in foreign-key order:

  Countries → Airlines, Airports → Planes → Routes

Every file is loaded with one COPY and either lands completely or not at all.
Constraint violations stop the run; recover with 'airroutes reset' and load again.

Typical session:
  airroutes init -d airroutes
  airroutes load ./data -d airroutes
  airroutes verify -d airroutes

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied a destructive operation
  13 - SQL execution failed
  14 - Data file not found
  20 - Uniqueness violation (table already loaded)
  21 - Foreign key violation (parent row missing)
  22 - Check violation (value outside its domain)
  23 - Malformed input row
  24 - Load step out of order
  25 - Schema already exists
  26 - Schema not created
  27 - Integrity verification failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for airroutes")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("log-format", "",
		"Log output format: console|json (default: console, or log_format in airroutes.yaml)")
	rootCmd.PersistentFlags().String("config-dir", ".",
		"Directory holding airroutes.yaml and .env")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// getConfigDir returns the --config-dir value.
func getConfigDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// newLogger builds the logger selected by --log-format, falling back to
// the project file.
func newLogger(cmd *cobra.Command, logFormat string, verbose bool) (airroutes.Logger, error) {
	if flag, err := cmd.Flags().GetString("log-format"); err == nil && flag != "" {
		logFormat = flag
	}
	return logging.New(logFormat, verbose)
}
