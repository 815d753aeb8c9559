// Package api implements the HTTP JSON API of the propdash server.
//
// New(store, engine, metrics) returns a *Handler that serves:
//
//	GET  /api/v1/health                    liveness and verdict counts across tenants
//	POST /api/v1/evaluate                  evaluate the posted snapshot (optional "config" overrides)
//	GET  /api/v1/tenants                   live tenants with verdict and health score
//	PUT  /api/v1/tenants/{id}/snapshot     store a tenant's latest snapshot
//	GET  /api/v1/tenants/{id}/dashboard    evaluated dashboard; 404 if unknown or stale
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for the wrong method
//   - Echo or assign an X-Request-ID header
//
// Dashboard indicators are decorated with icon names; ?compact=1 adds the
// compact indicator list. SetEngine swaps the engine after a config reload.
// LimitIngest puts a per-tenant token bucket in front of snapshot uploads;
// uploads over the limit get 429 with Retry-After.
// No external HTTP framework is used.
package api
