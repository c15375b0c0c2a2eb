package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/checksum"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/source"
	"github.com/vvka-141/airroutes/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [data_path]",
	Short: "Check the .dat files offline, without a database",
	Long: `Parse every .dat file found under data_path and report the rows the
schema would reject: malformed rows, values of the wrong type, duplicate
primary or unique keys and references to parents missing from the files.

Nothing is written anywhere. The exit code follows the first issue found.

Examples:
  airroutes validate ./data
  airroutes validate ./data --file routes=routes_small.dat
  airroutes validate s3://openflights/2017 --max-issues 50`,
	Args: OptionalDataPath,
	RunE: runValidate,
}

type validateFlagValues struct {
	files     map[string]string
	maxIssues int
	timeout   time.Duration
}

var validateFlags validateFlagValues

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringToStringVar(&validateFlags.files, "file", nil,
		"Override a table's file name: table=file (repeatable)")
	validateCmd.Flags().IntVar(&validateFlags.maxIssues, "max-issues", 20,
		"Maximum number of issues to print (0 prints all)")
	registerTimeoutFlag(validateCmd, &validateFlags.timeout)
}

func runValidate(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	files, err := resolveFileOverrides(env.project, validateFlags.files)
	if err != nil {
		return err
	}

	dataPath := resolveDataPath(args, env.project)
	if dataPath == "" {
		return RequireDataPath(cmd, args)
	}

	timeout, err := resolveEffectiveTimeout(cmd, env.project, validateFlags.timeout)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(timeout, "validate")
	defer cancel()

	src, err := source.Open(ctx, dataPath, source.S3Config{
		Region:       env.project.S3.Region,
		Endpoint:     env.project.S3.Endpoint,
		UsePathStyle: env.project.S3.PathStyle,
	})
	if err != nil {
		return err
	}

	ds, err := dataset.Load(ctx, src, files)
	if err != nil {
		return err
	}
	env.logger.Verbose("Parsed %d file(s) from %s", len(ds), src.Location())

	out := cmd.OutOrStdout()
	for _, table := range schema.Tables() {
		if f := ds.Get(table.Name); f != nil {
			fmt.Fprintf(out, "%s %-14s %6d rows  sha256 %s\n",
				ui.SymbolArrowRight, f.Name, len(f.Records), checksum.Short(f.Checksum))
		}
	}
	issues := dataset.Validate(ds)
	if len(issues) == 0 {
		fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("%s %d file(s) valid", ui.SymbolCheck, len(ds))))
		return nil
	}

	shown := issues
	if validateFlags.maxIssues > 0 && len(shown) > validateFlags.maxIssues {
		shown = shown[:validateFlags.maxIssues]
	}
	for _, issue := range shown {
		fmt.Fprintf(out, "%s %s\n", ui.ErrorStyle.Render(ui.SymbolCross), issue.Error())
	}
	if hidden := len(issues) - len(shown); hidden > 0 {
		fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("... and %d more", hidden)))
	}

	return fmt.Errorf("%d issue(s) found: %w", len(issues), issues[0])
}
