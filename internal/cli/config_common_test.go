package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestResolveFileOverrides(t *testing.T) {
	project := &config.ProjectConfig{Data: config.DataConfig{Files: map[string]string{
		"routes": "routes-2014.dat",
		"planes": "planes.dat.sz",
	}}}

	got, err := resolveFileOverrides(project, map[string]string{"ROUTES": "routes_small.dat"})
	if err != nil {
		t.Fatalf("resolveFileOverrides() error = %v", err)
	}
	if got["Routes"] != "routes_small.dat" {
		t.Errorf("flag should win over the project file, got %q", got["Routes"])
	}
	if got["Planes"] != "planes.dat.sz" {
		t.Errorf("Planes = %q, want planes.dat.sz", got["Planes"])
	}

	_, err = resolveFileOverrides(nil, map[string]string{"runways": "x.dat"})
	if !errors.Is(err, airroutes.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown table, got %v", err)
	}
}

func TestResolveEffectiveTimeout(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		var d time.Duration
		cmd.Flags().DurationVar(&d, "timeout", airroutes.DefaultTimeout, "")
		return cmd
	}

	t.Run("project file when flag unset", func(t *testing.T) {
		got, err := resolveEffectiveTimeout(newCmd(), &config.ProjectConfig{Timeout: "90s"}, airroutes.DefaultTimeout)
		if err != nil {
			t.Fatal(err)
		}
		if got != 90*time.Second {
			t.Errorf("got %v, want 90s", got)
		}
	})

	t.Run("flag wins when set", func(t *testing.T) {
		cmd := newCmd()
		if err := cmd.Flags().Set("timeout", "2m"); err != nil {
			t.Fatal(err)
		}
		got, err := resolveEffectiveTimeout(cmd, &config.ProjectConfig{Timeout: "90s"}, 2*time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if got != 2*time.Minute {
			t.Errorf("got %v, want 2m", got)
		}
	})

	t.Run("invalid project value", func(t *testing.T) {
		_, err := resolveEffectiveTimeout(newCmd(), &config.ProjectConfig{Timeout: "soon"}, airroutes.DefaultTimeout)
		if !errors.Is(err, airroutes.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoadProjectConfig_ReadsDotEnv(t *testing.T) {
	unsetEnv(t, connectionEnvVars...)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AIRROUTES_DATABASE=fromdotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("AIRROUTES_DATABASE") })

	cfg, err := loadProjectConfig(dir)
	if err != nil {
		t.Fatalf("loadProjectConfig() error = %v", err)
	}
	if cfg.Connection.Database != "fromdotenv" {
		t.Errorf("Database = %q, want fromdotenv", cfg.Connection.Database)
	}
}

func TestLoadProjectConfig_InvalidYAML(t *testing.T) {
	unsetEnv(t, connectionEnvVars...)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("connection: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadProjectConfig(dir)
	if !errors.Is(err, airroutes.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestResolveDataPath(t *testing.T) {
	project := &config.ProjectConfig{Data: config.DataConfig{Path: "/srv/data"}}
	if got := resolveDataPath([]string{"./data"}, project); got != "./data" {
		t.Errorf("argument should win, got %q", got)
	}
	if got := resolveDataPath(nil, project); got != "/srv/data" {
		t.Errorf("got %q, want /srv/data", got)
	}
	if got := resolveDataPath(nil, nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
