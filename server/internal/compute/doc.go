// Package compute consolidates a raw dashboard snapshot into display-ready
// indicators, sections and an overall verdict.
//
// The pipeline is pure and single-pass:
//
//	RawSnapshot → Extract (performance, system, activity, health)
//	            → Prioritize (priority tier, category weight, color severity)
//	            → Organize (Main Metrics, Activity, System Health)
//
// Summarize and Verdict read the flat indicator list independently of the
// sections. Derive works directly on the snapshot and produces ratios plus
// a deduction-based score (ScoreHealth) that is deliberately not reconciled
// with Verdict.
//
// Thresholds, category weights and display limits live in Config.
// DefaultConfig documents the defaults; Overrides replaces any subset per
// call without touching the Engine's own Config.
package compute
