package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/source"
	"github.com/vvka-141/airroutes/internal/ui"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [data_path]",
	Short: "Write a small, loadable subset of the .dat files",
	Long: `Draw a reproducible random subset of routes and keep only the airlines,
airports, countries and planes they reference. Routes whose parents are
missing are dropped, and multi-code equipment is split into one route per
plane, so the subset loads cleanly.

Output files are named <table>_small.dat (with --compress, <table>_small.dat.sz).

Examples:
  airroutes sample ./data --out ./data-small
  airroutes sample ./data --out ./data-small --routes 1000 --seed 7`,
	Args: OptionalDataPath,
	RunE: runSample,
}

type sampleFlagValues struct {
	files              map[string]string
	out                string
	routes             int
	seed               uint64
	keepMultiEquipment bool
	compress           bool
	timeout            time.Duration
}

var sampleFlags sampleFlagValues

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringToStringVar(&sampleFlags.files, "file", nil,
		"Override a table's input file name: table=file (repeatable)")
	sampleCmd.Flags().StringVarP(&sampleFlags.out, "out", "o", "",
		"Output directory (default: data_path)")
	sampleCmd.Flags().IntVar(&sampleFlags.routes, "routes", dataset.DefaultSampleRoutes,
		"Number of routes to draw before referential filtering")
	sampleCmd.Flags().Uint64Var(&sampleFlags.seed, "seed", dataset.DefaultSampleSeed,
		"Random seed; the same seed and input give the same subset")
	sampleCmd.Flags().BoolVar(&sampleFlags.keepMultiEquipment, "keep-multi-equipment", false,
		"Keep routes with several equipment codes as they are (the output may not load)")
	sampleCmd.Flags().BoolVar(&sampleFlags.compress, "compress", false,
		"Write snappy-compressed .sz files")
	registerTimeoutFlag(sampleCmd, &sampleFlags.timeout)
}

func runSample(cmd *cobra.Command, args []string) error {
	env, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	files, err := resolveFileOverrides(env.project, sampleFlags.files)
	if err != nil {
		return err
	}

	dataPath := resolveDataPath(args, env.project)
	if dataPath == "" {
		return RequireDataPath(cmd, args)
	}

	outDir := sampleFlags.out
	if outDir == "" {
		outDir = dataPath
	}

	opts := resolveSampleOptions(cmd, env.project.Sample)

	timeout, err := resolveEffectiveTimeout(cmd, env.project, sampleFlags.timeout)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(timeout, "sample")
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

	subset, stats, err := dataset.Sample(ds, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	dst, err := source.NewDir(outDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, table := range schema.Tables() {
		f := subset.Get(table.Name)
		if f == nil {
			continue
		}

		var buf bytes.Buffer
		if err := dataset.Write(&buf, f.Records); err != nil {
			return fmt.Errorf("failed to encode %s: %w", table.Name, err)
		}

		name := f.Name
		if sampleFlags.compress {
			name += source.CompressedSuffix
		}
		if err := dst.WriteFile(name, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Fprintf(out, "%s %s: %d rows\n", ui.SuccessStyle.Render(ui.SymbolCheck), name, len(f.Records))
	}

	ui.PrintSampleStats(out, stats)
	return nil
}

// resolveSampleOptions applies flag > airroutes.yaml/environment > flag default.
func resolveSampleOptions(cmd *cobra.Command, project config.SampleConfig) dataset.SampleOptions {
	opts := dataset.SampleOptions{
		Routes:    sampleFlags.routes,
		Seed:      sampleFlags.seed,
		Normalize: !project.KeepMultiEquipment,
	}
	if project.Routes != nil && !cmd.Flags().Changed("routes") {
		opts.Routes = *project.Routes
	}
	if project.Seed != nil && !cmd.Flags().Changed("seed") {
		opts.Seed = *project.Seed
	}
	if cmd.Flags().Changed("keep-multi-equipment") {
		opts.Normalize = !sampleFlags.keepMultiEquipment
	}
	return opts
}
