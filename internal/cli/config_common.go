package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/db"
	"github.com/vvka-141/airroutes/internal/db/manager"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/services"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// commandEnv is what every command needs before doing work.
type commandEnv struct {
	project *config.ProjectConfig
	logger  airroutes.Logger
	verbose bool
}

// setupCommand loads .env and airroutes.yaml from --config-dir and builds
// the logger.
func setupCommand(cmd *cobra.Command) (*commandEnv, error) {
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(getConfigDir(cmd))
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd, projectCfg.LogFormat, verbose)
	if err != nil {
		return nil, err
	}
	return &commandEnv{project: projectCfg, logger: logger, verbose: verbose}, nil
}

// loadProjectConfig loads godotenv and project configuration.
// A missing airroutes.yaml yields environment values and defaults.
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	projectCfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, airroutes.ErrInvalidConfig, err)
	}
	return projectCfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring airroutes.yaml if flag wasn't set.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, err := projectCfg.TimeoutDuration()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", airroutes.ErrInvalidConfig, err)
		}
		return parsed, nil
	}
	return flagTimeout, nil
}

// registerTimeoutFlag adds --timeout with the command default.
func registerTimeoutFlag(cmd *cobra.Command, target *time.Duration) {
	cmd.Flags().DurationVar(target, "timeout", airroutes.DefaultTimeout,
		"Catastrophic failure protection timeout for the whole command\n"+
			"Prevents indefinite hangs from network issues or lock waits\n"+
			"Examples: 30s, 5m, 1h30m")
}

// resolveFileOverrides merges the file names of airroutes.yaml with
// --file table=name flags and canonicalizes the table names.
func resolveFileOverrides(projectCfg *config.ProjectConfig, flagFiles map[string]string) (map[string]string, error) {
	merged := make(map[string]string)
	add := func(from map[string]string, origin string) error {
		for name, file := range from {
			table, ok := schema.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown table %q in %s (tables: %v): %w", name, origin, schema.Names(), airroutes.ErrInvalidConfig)
			}
			merged[table.Name] = file
		}
		return nil
	}

	if projectCfg != nil {
		if err := add(projectCfg.Data.Files, config.ConfigFileName); err != nil {
			return nil, err
		}
	}
	if err := add(flagFiles, "--file"); err != nil {
		return nil, err
	}
	return merged, nil
}

// resolveDataPath returns the positional data path or data.path from the
// project file.
func resolveDataPath(args []string, projectCfg *config.ProjectConfig) string {
	if len(args) > 0 {
		return args[0]
	}
	if projectCfg != nil {
		return projectCfg.Data.Path
	}
	return ""
}

// newDatasetService wires the production dependencies.
func newDatasetService(env *commandEnv, approver airroutes.Approver) *services.DatasetService {
	return services.NewDatasetService(db.Factory(env.logger), approver, env.logger, manager.New())
}

// commandContext returns a context bounded by timeout and cancelled on
// SIGINT or SIGTERM.
func commandContext(timeout time.Duration, what string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", what)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
