// Package types defines shared Go types used by both the agent and server.
// These are the canonical in-memory representations of dashboard data:
// the RawSnapshot the agent assembles from upstream sources, and the
// Indicator/Section/ConsolidatedResult values the server derives from it.
// All types round-trip through JSON with camelCase keys.
package types
