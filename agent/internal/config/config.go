package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/propdash/propdash/pkg/logging"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCollectInterval = 30 * time.Second
	DefaultBufferSize      = 100
	DefaultRequestTimeout  = 10 * time.Second
)

// Config is the top-level agent configuration. The `server:` key in a shared
// config.yaml is ignored.
type Config struct {
	Agent AgentConfig    `yaml:"agent"`
	Log   logging.Config `yaml:"log"`
}

// AgentConfig holds all agent-side settings.
type AgentConfig struct {
	// ServerURL is the base URL of propdash-server, e.g. http://propdash:8080.
	ServerURL string `yaml:"server_url"`

	// TenantID identifies the tenant whose snapshots this agent ships.
	TenantID string `yaml:"tenant_id"`

	// CollectInterval controls how often the sources are polled.
	CollectInterval time.Duration `yaml:"collect_interval"`

	// RequestTimeout bounds each HTTP call to a source or the server.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// BufferSize is the maximum number of snapshots held in memory when
	// the server is unreachable.
	BufferSize int `yaml:"buffer_size"`

	// ServerAuth configures how the agent authenticates to propdash-server.
	ServerAuth AuthConfig `yaml:"server_auth"`

	// ServerTLS holds TLS options for the server connection.
	ServerTLS TLSConfig `yaml:"server_tls"`

	// Sources lists the tenant application endpoints to collect from.
	Sources Sources `yaml:"sources"`
}

// Sources names one endpoint per snapshot sub-document. A nil endpoint is
// not collected and its sub-document stays absent.
type Sources struct {
	Stats         *Endpoint `yaml:"stats"`
	Health        *Endpoint `yaml:"health"`
	Schedules     *Endpoint `yaml:"schedules"`
	Jobs          *Endpoint `yaml:"jobs"`
	Upcoming      *Endpoint `yaml:"upcoming"`
	WorkerMetrics *Endpoint `yaml:"worker_metrics"`
}

// Named pairs a configured endpoint with its source name.
type Named struct {
	Name     string
	Endpoint Endpoint
}

// Source names, as used in config keys and log records.
const (
	SourceStats         = "stats"
	SourceHealth        = "health"
	SourceSchedules     = "schedules"
	SourceJobs          = "jobs"
	SourceUpcoming      = "upcoming"
	SourceWorkerMetrics = "worker_metrics"
)

// Configured returns the configured endpoints in a fixed order.
func (s Sources) Configured() []Named {
	all := []struct {
		name string
		ep   *Endpoint
	}{
		{SourceStats, s.Stats},
		{SourceHealth, s.Health},
		{SourceSchedules, s.Schedules},
		{SourceJobs, s.Jobs},
		{SourceUpcoming, s.Upcoming},
		{SourceWorkerMetrics, s.WorkerMetrics},
	}
	var out []Named
	for _, e := range all {
		if e.ep != nil {
			out = append(out, Named{Name: e.name, Endpoint: *e.ep})
		}
	}
	return out
}

// Endpoint is one HTTP source.
type Endpoint struct {
	// URL is the full URL of the JSON document or metrics page.
	URL string `yaml:"url"`

	// Auth configures how the agent authenticates to this endpoint.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig specifies the authentication mode for an endpoint.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// mTLS fields: used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// API key fields: used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields: used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields: used when Mode == "basic".
	// Username is the literal username (safe to store in config).
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// EffectiveHeader returns the API key header, or "X-API-Key" when unset.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-API-Key"
}

// TLSConfig holds per-endpoint TLS dial options.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			CollectInterval: DefaultCollectInterval,
			RequestTimeout:  DefaultRequestTimeout,
			BufferSize:      DefaultBufferSize,
		},
		Log: logging.Config{Level: "info"},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Agent
	if a.ServerURL == "" {
		return fmt.Errorf("agent.server_url is required")
	}
	if err := checkURL(a.ServerURL); err != nil {
		return fmt.Errorf("agent.server_url: %w", err)
	}
	if a.TenantID == "" {
		return fmt.Errorf("agent.tenant_id is required")
	}
	if a.CollectInterval <= 0 {
		return fmt.Errorf("agent.collect_interval must be positive")
	}
	if a.RequestTimeout <= 0 {
		return fmt.Errorf("agent.request_timeout must be positive")
	}
	if a.BufferSize <= 0 {
		return fmt.Errorf("agent.buffer_size must be positive")
	}
	if err := checkAuthMode(a.ServerAuth.Mode); err != nil {
		return fmt.Errorf("agent.server_auth: %w", err)
	}
	for _, n := range a.Sources.Configured() {
		if n.Endpoint.URL == "" {
			return fmt.Errorf("sources.%s: url is required", n.Name)
		}
		if err := checkURL(n.Endpoint.URL); err != nil {
			return fmt.Errorf("sources.%s: %w", n.Name, err)
		}
		if err := checkAuthMode(n.Endpoint.Auth.Mode); err != nil {
			return fmt.Errorf("sources.%s: %w", n.Name, err)
		}
	}
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func checkAuthMode(mode string) error {
	switch mode {
	case "mtls", "apikey", "bearer", "basic", "none", "":
		return nil
	default:
		return fmt.Errorf("unknown auth mode %q", mode)
	}
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
