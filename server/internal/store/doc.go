// Package store holds the latest RawSnapshot per tenant in memory, with
// TTL eviction so tenants whose agent stops reporting drop off the dashboard.
package store
