package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/propdash/propdash/pkg/logging"
	"github.com/propdash/propdash/server/internal/compute"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort    = 8080
	DefaultSnapshotTTL = 5 * time.Minute

	DefaultIngestPerMinute = 60
	DefaultIngestBurst     = 10
)

// Config holds the server configuration parsed from config.yaml. The
// `agent:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`

	// Log configures the process logger.
	Log logging.Config `yaml:"log"`

	// Engine overrides the engine defaults. Only the fields present in the
	// file replace defaults; thresholds are replaced per metric.
	Engine compute.Overrides `yaml:"engine"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the JSON API and /metrics listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates API clients.
	Auth AuthConfig `yaml:"auth"`

	// Snapshot controls in-memory snapshot retention.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Ingest rate-limits snapshot uploads per tenant.
	Ingest IngestConfig `yaml:"ingest"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "X-API-Key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "X-API-Key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-API-Key"
}

// SnapshotConfig controls in-memory snapshot retention.
type SnapshotConfig struct {
	// TTL is how long a tenant's snapshot remains in the store after its last update.
	// When TTL elapses without a new snapshot for a tenant, the entry is evicted.
	// Default: 5m.
	TTL time.Duration `yaml:"ttl"`
}

// IngestConfig bounds how often a single tenant may upload snapshots.
// Uploads over the limit get 429 and the agent retries later.
type IngestConfig struct {
	// RatePerMinute is the sustained upload rate per tenant. Zero disables the limit.
	RatePerMinute float64 `yaml:"rate_per_minute"`

	// Burst is the number of uploads allowed back to back.
	Burst int `yaml:"burst"`
}

// EngineConfig returns the engine defaults with the file's engine section applied.
func (c *Config) EngineConfig() compute.Config {
	return compute.DefaultConfig().Apply(c.Engine)
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Snapshot: SnapshotConfig{
				TTL: DefaultSnapshotTTL,
			},
			Ingest: IngestConfig{
				RatePerMinute: DefaultIngestPerMinute,
				Burst:         DefaultIngestBurst,
			},
		},
		Log: logging.Config{Level: "info"},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Snapshot.TTL < 0 {
		return fmt.Errorf("server.snapshot.ttl must not be negative")
	}
	if cfg.Server.Ingest.RatePerMinute < 0 {
		return fmt.Errorf("server.ingest.rate_per_minute must not be negative")
	}
	if cfg.Server.Ingest.RatePerMinute > 0 && cfg.Server.Ingest.Burst < 1 {
		return fmt.Errorf("server.ingest.burst must be at least 1 when rate_per_minute is set")
	}
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := cfg.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}
