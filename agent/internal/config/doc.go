// Package config loads and watches the agent configuration file (config.yaml).
//
// Top-level types:
//   - Config{Agent, Log}: config tree parsed from YAML
//   - AgentConfig: server_url, tenant_id, collect_interval, request_timeout,
//     buffer_size, server_auth, server_tls, sources
//   - Sources: one optional Endpoint per snapshot sub-document: stats, health,
//     schedules, jobs, upcoming, worker_metrics
//   - AuthConfig: mode (mtls|apikey|bearer|basic|none), cert/key/ca files,
//     header, key_env, token_env, password_env; secrets resolve from the
//     environment
//
// Load(path) reads the YAML file, applies defaults (30s collect interval,
// 10s request timeout, 100 buffered snapshots), then validates required
// fields, URLs and auth modes.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config.
package config
