package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/propdash/propdash/server/internal/compute"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Only the agent section is present; the server falls back to defaults.
	p := writeConfig(t, `agent:
  server_url: "http://localhost:8080"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Snapshot.TTL != DefaultSnapshotTTL {
		t.Errorf("snapshot.ttl: got %v, want %v", cfg.Server.Snapshot.TTL, DefaultSnapshotTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level: got %q, want info", cfg.Log.Level)
	}
	if cfg.Server.Ingest.RatePerMinute != DefaultIngestPerMinute || cfg.Server.Ingest.Burst != DefaultIngestBurst {
		t.Errorf("ingest: got %+v, want %d/min burst %d", cfg.Server.Ingest, DefaultIngestPerMinute, DefaultIngestBurst)
	}
	got := cfg.EngineConfig()
	want := compute.DefaultConfig()
	if got.DisplayLimits != want.DisplayLimits || got.PriorityWeights != want.PriorityWeights {
		t.Errorf("engine: got %+v, want defaults", got)
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  auth:
    mode: apikey
    key_env: MY_KEY
    header: X-Propdash-Key
  snapshot:
    ttl: 10m
log:
  level: debug
  file: /var/log/propdash/server.log
  max_size_mb: 50
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if cfg.Server.Auth.Mode != "apikey" {
		t.Errorf("auth.mode: got %q, want apikey", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Auth.EffectiveHeader() != "X-Propdash-Key" {
		t.Errorf("header: got %q, want X-Propdash-Key", cfg.Server.Auth.EffectiveHeader())
	}
	if cfg.Server.Snapshot.TTL != 10*time.Minute {
		t.Errorf("snapshot.ttl: got %v, want 10m", cfg.Server.Snapshot.TTL)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxSizeMB != 50 {
		t.Errorf("log: got %+v", cfg.Log)
	}
}

func TestLoad_EngineOverrides(t *testing.T) {
	p := writeConfig(t, `engine:
  priority_weights:
    health: 1.5
  thresholds:
    pendingJobs:
      warning: 5
      critical: 15
  display_limits:
    max_sections: 2
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ec := cfg.EngineConfig()
	if ec.PriorityWeights.Health != 1.5 {
		t.Errorf("health weight: got %v, want 1.5", ec.PriorityWeights.Health)
	}
	if ec.PriorityWeights.Performance != 1.0 {
		t.Errorf("performance weight: got %v, want default 1.0", ec.PriorityWeights.Performance)
	}
	if th := ec.Threshold(compute.MetricPendingJobs); th.Warning != 5 || th.Critical != 15 {
		t.Errorf("pendingJobs threshold: got %+v", th)
	}
	if th := ec.Threshold(compute.MetricSuccessRate); th.Warning != 80 {
		t.Errorf("successRate threshold changed: got %+v", th)
	}
	if ec.DisplayLimits.MaxSections != 2 {
		t.Errorf("max_sections: got %d, want 2", ec.DisplayLimits.MaxSections)
	}
	if ec.DisplayLimits.MaxIndicatorsPerSection != compute.DefaultMaxIndicatorsPerSection {
		t.Errorf("max_indicators_per_section: got %d", ec.DisplayLimits.MaxIndicatorsPerSection)
	}
}

func TestLoad_InvalidEngine(t *testing.T) {
	p := writeConfig(t, `engine:
  display_limits:
    max_sections: 0
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for max_sections 0, got nil")
	}
}

func TestLoad_DefaultHeader(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: K
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := cfg.Server.Auth.EffectiveHeader(); h != "X-API-Key" {
		t.Errorf("EffectiveHeader: got %q, want X-API-Key", h)
	}
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("TEST_SERVER_KEY", "supersecret")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: TEST_SERVER_KEY
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k := cfg.Server.Auth.Key(); k != "supersecret" {
		t.Errorf("Key(): got %q, want supersecret", k)
	}
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: oauth2
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for unknown auth mode, got nil")
	}
}

func TestLoad_BadLogLevel(t *testing.T) {
	p := writeConfig(t, `log:
  level: chatty
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for unknown log level, got nil")
	}
}

func TestLoad_PortOutOfRange(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 70000
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for port 70000, got nil")
	}
}

func TestLoad_Ingest(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"disabled", "server:\n  ingest:\n    rate_per_minute: 0\n", false},
		{"custom", "server:\n  ingest:\n    rate_per_minute: 2\n    burst: 1\n", false},
		{"negative rate", "server:\n  ingest:\n    rate_per_minute: -1\n", true},
		{"zero burst", "server:\n  ingest:\n    rate_per_minute: 5\n    burst: 0\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load: err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 8080
`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(p, []byte("server:\n  http_port: 9099\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// A truncating write can fire more than one event; wait for the final content.
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-changed:
			reloaded = c.Server.HTTPPort == 9099
		case <-timeout:
			t.Fatal("timed out waiting for reload with http_port 9099")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v, want nil", err)
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/config.yaml", func(*Config) {})
	if err == nil {
		t.Fatal("expected error watching a missing file, got nil")
	}
}
