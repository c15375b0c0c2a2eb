package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/ui"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

var loadCmd = &cobra.Command{
	Use:   "load [data_path]",
	Short: "Bulk-load the .dat files into the target database",
	Long: `Load countries, airlines, airports, planes and routes in foreign-key order.

data_path is a directory or an s3://bucket/prefix location holding the .dat
files. Without it, data.path from airroutes.yaml is used. Files ending in .sz
are decompressed on the fly when the plain file is absent.

Each table is loaded with one COPY inside its own transaction. A failing table
leaves the tables before it loaded; fix the data and rerun with --resume, or
start over with 'airroutes reset'.

Examples:
  airroutes load ./data -d airroutes
  airroutes load ./data -d airroutes --resume
  airroutes load ./data -d airroutes --table routes
  airroutes load ./data -d airroutes --file routes=routes_small.dat
  airroutes load s3://openflights/2017 -d airroutes --s3-region eu-west-1`,
	Args: OptionalDataPath,
	RunE: runLoad,
}

type loadFlagValues struct {
	conn           connectionFlags
	table          string
	resume         bool
	skipValidate   bool
	skipOrderCheck bool
	files          map[string]string
	s3Region       string
	s3Endpoint     string
	s3PathStyle    bool
	timeout        time.Duration
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	registerConnectionFlags(loadCmd, &loadFlags.conn)
	loadCmd.Flags().StringVar(&loadFlags.table, "table", "",
		"Load a single table (countries|airlines|airports|planes|routes)")
	loadCmd.Flags().BoolVar(&loadFlags.resume, "resume", false,
		"Skip tables that already hold rows and load the rest")
	loadCmd.Flags().BoolVar(&loadFlags.skipValidate, "skip-validate", false,
		"Do not pre-check rows before COPY; the database reports the first bad row")
	loadCmd.Flags().BoolVar(&loadFlags.skipOrderCheck, "no-order-check", false,
		"Let --table run before its parents are loaded and leave rejection to the foreign keys")
	loadCmd.Flags().StringToStringVar(&loadFlags.files, "file", nil,
		"Override a table's file name: table=file (repeatable)")
	loadCmd.Flags().StringVar(&loadFlags.s3Region, "s3-region", "",
		"AWS region of the bucket for s3:// data paths")
	loadCmd.Flags().StringVar(&loadFlags.s3Endpoint, "s3-endpoint", "",
		"Custom S3 endpoint (MinIO, LocalStack)")
	loadCmd.Flags().BoolVar(&loadFlags.s3PathStyle, "s3-path-style", false,
		"Use path-style S3 addressing")
	registerTimeoutFlag(loadCmd, &loadFlags.timeout)

	_ = loadCmd.RegisterFlagCompletionFunc("table", completeTableNames)
}

func runLoad(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	resolved, err := resolveConnectionFromFlags(loadFlags.conn, env.project, "load")
	if err != nil {
		return err
	}
	if env.verbose {
		logConnectionVerbose(env.logger, resolved, false)
	}

	timeout, err := resolveEffectiveTimeout(cmd, env.project, loadFlags.timeout)
	if err != nil {
		return err
	}

	files, err := resolveFileOverrides(env.project, loadFlags.files)
	if err != nil {
		return err
	}

	s3 := env.project.S3
	if cmd.Flags().Changed("s3-region") {
		s3.Region = loadFlags.s3Region
	}
	if cmd.Flags().Changed("s3-endpoint") {
		s3.Endpoint = loadFlags.s3Endpoint
	}
	if cmd.Flags().Changed("s3-path-style") {
		s3.PathStyle = loadFlags.s3PathStyle
	}

	skipValidate := env.project.Data.SkipValidate
	if cmd.Flags().Changed("skip-validate") {
		skipValidate = loadFlags.skipValidate
	}

	loadConfig := airroutes.LoadConfig{
		Connection:     resolved.ConnConfig,
		DataPath:       resolveDataPath(args, env.project),
		Files:          files,
		Table:          loadFlags.table,
		Resume:         loadFlags.resume,
		SkipValidate:   skipValidate,
		SkipOrderCheck: loadFlags.skipOrderCheck,
		S3Region:       s3.Region,
		S3Endpoint:     s3.Endpoint,
		S3PathStyle:    s3.PathStyle,
		Timeout:        timeout,
		Verbose:        env.verbose,
	}
	if err := loadConfig.Validate(); err != nil {
		return err
	}

	ctx, cancel := commandContext(timeout, "load")
	defer cancel()

	svc := newDatasetService(env, ui.NewApprover(false, env.verbose))
	result, err := svc.Load(ctx, loadConfig)
	if result != nil {
		ui.PrintLoadResult(os.Stdout, result)
	}
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	return nil
}
