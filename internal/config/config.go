package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is the project file looked up in the working directory.
const ConfigFileName = "airroutes.yaml"

// ConnectionConfig holds the connection section of airroutes.yaml.
// Passwords and client secrets never live in the file; they come from
// PGPASSWORD, .pgpass or AZURE_CLIENT_SECRET.
type ConnectionConfig struct {
	Host               string `yaml:"host" env:"AIRROUTES_HOST"`
	Port               int    `yaml:"port" env:"AIRROUTES_PORT"`
	Username           string `yaml:"username" env:"AIRROUTES_USER"`
	Database           string `yaml:"database" env:"AIRROUTES_DATABASE"`
	ManagementDatabase string `yaml:"management_database,omitempty" env:"AIRROUTES_MANAGEMENT_DATABASE"`
	SSLMode            string `yaml:"sslmode" env:"AIRROUTES_SSLMODE"`
	AuthMethod         string `yaml:"auth_method,omitempty" env:"AIRROUTES_AUTH_METHOD"`
	AzureTenantID      string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID      string `yaml:"azure_client_id,omitempty"`
	AWSRegion          string `yaml:"aws_region,omitempty"`
	GoogleInstance     string `yaml:"google_instance,omitempty"`
}

// DataConfig locates the .dat files.
type DataConfig struct {
	// Path is a directory or an s3://bucket/prefix URI.
	Path string `yaml:"path" env:"AIRROUTES_DATA_PATH"`

	// Files overrides the file name per table, e.g. routes: routes_small.dat.
	Files map[string]string `yaml:"files,omitempty"`

	SkipValidate bool `yaml:"skip_validate,omitempty" env:"AIRROUTES_SKIP_VALIDATE"`
}

// S3Config configures the S3 data source.
type S3Config struct {
	Region    string `yaml:"region,omitempty" env:"AIRROUTES_S3_REGION"`
	Endpoint  string `yaml:"endpoint,omitempty" env:"AIRROUTES_S3_ENDPOINT"`
	PathStyle bool   `yaml:"path_style,omitempty" env:"AIRROUTES_S3_PATH_STYLE"`
}

// SampleConfig holds defaults for `airroutes sample`. Routes and Seed are
// nil when neither the file nor the environment sets them, so an explicit 0
// is kept.
type SampleConfig struct {
	Routes *int    `yaml:"routes,omitempty"`
	Seed   *uint64 `yaml:"seed,omitempty"`

	// KeepMultiEquipment writes routes exactly as sampled instead of one row
	// per equipment code. The output then may not load under the schema.
	KeepMultiEquipment bool `yaml:"keep_multi_equipment,omitempty" env:"AIRROUTES_SAMPLE_KEEP_MULTI_EQUIPMENT"`
}

// Environment overrides for the optional sample settings.
const (
	SampleRoutesEnv = "AIRROUTES_SAMPLE_ROUTES"
	SampleSeedEnv   = "AIRROUTES_SAMPLE_SEED"
)

func (s *SampleConfig) readEnv() error {
	if v, ok := os.LookupEnv(SampleRoutesEnv); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", SampleRoutesEnv, err)
		}
		s.Routes = &n
	}
	if v, ok := os.LookupEnv(SampleSeedEnv); ok {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", SampleSeedEnv, err)
		}
		s.Seed = &n
	}
	return nil
}

// ProjectConfig is the content of airroutes.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Data       DataConfig       `yaml:"data"`
	S3         S3Config         `yaml:"s3,omitempty"`
	Sample     SampleConfig     `yaml:"sample"`
	Timeout    string           `yaml:"timeout,omitempty" env:"AIRROUTES_TIMEOUT"`
	LogFormat  string           `yaml:"log_format,omitempty" env:"AIRROUTES_LOG_FORMAT" env-default:"console"`
}

// Update implements cleanenv.Updater for the settings whose zero value is
// meaningful.
func (c *ProjectConfig) Update() error {
	return c.Sample.readEnv()
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, err)
	}
	return d, nil
}

// Load reads airroutes.yaml from dir with AIRROUTES_* environment overrides.
// Environment variables win over file values; defaults fill what neither sets.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if len(bytes.TrimSpace(data)) == 0 {
		// The YAML decoder rejects empty documents.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to environment and defaults
// when dir has no airroutes.yaml.
func LoadOrDefault(dir string) (*ProjectConfig, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	cfg = &ProjectConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as airroutes.yaml content.
func Marshal(cfg *ProjectConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to dir/airroutes.yaml.
func Save(dir string, cfg *ProjectConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", ConfigFileName, err)
	}
	return os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0o644)
}
