// Package config loads the server configuration from config.yaml.
//
// Config fields:
//   - Server.HTTPPort: port for the JSON API and /metrics (default 8080)
//   - Server.Auth.Mode: "apikey" or "none"
//   - Server.Auth.KeyEnv: environment variable holding the expected API key
//   - Server.Auth.Header: HTTP header name (default "X-API-Key")
//   - Server.Snapshot.TTL: how long a tenant snapshot remains live (default 5m)
//   - Server.Ingest: per-tenant upload rate limit (default 60/min, burst 10)
//   - Log: level and optional rotating log file
//   - Engine: partial override of the engine defaults
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads the file on every write.
package config
