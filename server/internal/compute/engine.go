package compute

import (
	"fmt"
	"time"

	"github.com/propdash/propdash/pkg/types"
)

// Report is everything one evaluation produces: the consolidated indicator
// view, the compact indicator list, and the derived metrics computed
// alongside it.
type Report struct {
	types.ConsolidatedResult
	Compact []types.Indicator    `json:"compact,omitempty"`
	Derived types.DerivedMetrics `json:"derived"`
}

// Engine consolidates raw snapshots into dashboard sections and verdicts.
//
// An Engine holds only its read-only Config, so all methods are safe for
// concurrent use and every call is independent of every other.
type Engine struct {
	cfg Config
	now func() time.Time // injectable for deterministic tests
}

// NewEngine validates cfg and returns an Engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("compute: invalid config: %w", err)
	}
	return &Engine{cfg: cfg, now: time.Now}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Consolidate evaluates snap with the engine's configuration.
func (e *Engine) Consolidate(snap *types.RawSnapshot) types.ConsolidatedResult {
	return consolidate(snap, e.cfg, e.now())
}

// ConsolidateWith evaluates snap with o applied on top of the engine's
// configuration. The engine's own configuration is not changed.
func (e *Engine) ConsolidateWith(snap *types.RawSnapshot, o Overrides) (types.ConsolidatedResult, error) {
	cfg, err := e.configFor(&o)
	if err != nil {
		return types.ConsolidatedResult{}, err
	}
	return consolidate(snap, cfg, e.now()), nil
}

// Evaluate runs both the indicator pipeline and the derived-metrics
// calculator against snap. A nil o means no overrides.
func (e *Engine) Evaluate(snap *types.RawSnapshot, o *Overrides) (Report, error) {
	cfg, err := e.configFor(o)
	if err != nil {
		return Report{}, err
	}

	inds := Extract(snap, cfg)
	prioritized := Prioritize(inds, cfg.PriorityWeights)

	return Report{
		ConsolidatedResult: assemble(inds, prioritized, snap, cfg, e.now()),
		Compact:            Compact(prioritized, cfg.DisplayLimits),
		Derived:            Derive(snap),
	}, nil
}

// configFor returns the engine's configuration with o applied and
// validated. A nil o returns the engine's configuration unchanged.
func (e *Engine) configFor(o *Overrides) (Config, error) {
	if o == nil {
		return e.cfg, nil
	}
	cfg := e.cfg.Apply(*o)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("compute: invalid overrides: %w", err)
	}
	return cfg, nil
}

func consolidate(snap *types.RawSnapshot, cfg Config, now time.Time) types.ConsolidatedResult {
	inds := Extract(snap, cfg)
	return assemble(inds, Prioritize(inds, cfg.PriorityWeights), snap, cfg, now)
}

func assemble(inds, prioritized []types.Indicator, snap *types.RawSnapshot, cfg Config, now time.Time) types.ConsolidatedResult {
	sections := Organize(prioritized, cfg.DisplayLimits)
	if sections == nil {
		sections = []types.Section{}
	}
	return types.ConsolidatedResult{
		Sections:     sections,
		Summary:      Summarize(inds, now),
		SystemStatus: Verdict(inds, snap),
	}
}
