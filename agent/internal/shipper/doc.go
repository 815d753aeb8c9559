// Package shipper sends RawSnapshots to propdash-server with
// PUT /api/v1/tenants/{id}/snapshot.
//
// Shipper.Ship() is non-blocking: snapshots are placed in an in-memory
// channel (agent.buffer_size, default 100). When the buffer is full the
// oldest entry is evicted so the latest tenant data is always preserved.
//
// Shipper.Run() drains the buffer in order, retrying a failed send with
// truncated exponential backoff (1s→60s, ±25% jitter). Client errors other
// than 408 and 429 discard the snapshot immediately rather than retrying.
//
// Auth: the server connection uses the same RoundTripper as the collector,
// so apikey, bearer, basic and mtls are all available via agent.server_auth.
package shipper
