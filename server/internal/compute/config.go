package compute

import (
	"fmt"
	"math"

	"github.com/propdash/propdash/pkg/types"
)

// Metric names used as keys in Config.Thresholds.
const (
	MetricSuccessRate = "successRate"
	MetricEfficiency  = "efficiency"
	MetricPendingJobs = "pendingJobs"
)

// Threshold is a warning/critical pair for one metric. Whether higher or
// lower values are better depends on the classifier the caller picks.
type Threshold struct {
	Warning  float64 `yaml:"warning" json:"warning"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// PriorityWeights ranks categories against each other when priorities tie.
type PriorityWeights struct {
	Performance float64 `yaml:"performance" json:"performance"`
	System      float64 `yaml:"system" json:"system"`
	Activity    float64 `yaml:"activity" json:"activity"`
	Health      float64 `yaml:"health" json:"health"`
}

// Weight returns the weight configured for c, or 0 for an unknown category.
func (w PriorityWeights) Weight(c types.Category) float64 {
	switch c {
	case types.CategoryPerformance:
		return w.Performance
	case types.CategorySystem:
		return w.System
	case types.CategoryActivity:
		return w.Activity
	case types.CategoryHealth:
		return w.Health
	default:
		return 0
	}
}

// DisplayLimits bounds the size of the organized output.
type DisplayLimits struct {
	MaxIndicatorsPerSection int `yaml:"max_indicators_per_section" json:"maxIndicatorsPerSection"`
	MaxSections             int `yaml:"max_sections" json:"maxSections"`
	CompactModeIndicators   int `yaml:"compact_mode_indicators" json:"compactModeIndicators"`
}

// Config is the engine's threshold configuration. A Config is a value; the
// engine never modifies one after construction.
type Config struct {
	PriorityWeights PriorityWeights
	Thresholds      map[string]Threshold
	DisplayLimits   DisplayLimits
}

// Default configuration values.
const (
	DefaultMaxIndicatorsPerSection = 6
	DefaultMaxSections             = 4
	DefaultCompactModeIndicators   = 4

	// mainMetricsCap is the fixed size of the "Main Metrics" section,
	// independent of DisplayLimits.
	mainMetricsCap = 4
)

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		PriorityWeights: PriorityWeights{
			Performance: 1.0,
			System:      0.9,
			Health:      0.8,
			Activity:    0.7,
		},
		Thresholds: map[string]Threshold{
			MetricSuccessRate: {Warning: 80, Critical: 60},
			MetricEfficiency:  {Warning: 70, Critical: 50},
			MetricPendingJobs: {Warning: 10, Critical: 25},
		},
		DisplayLimits: DisplayLimits{
			MaxIndicatorsPerSection: DefaultMaxIndicatorsPerSection,
			MaxSections:             DefaultMaxSections,
			CompactModeIndicators:   DefaultCompactModeIndicators,
		},
	}
}

// Threshold returns the pair configured for metric, falling back to the
// default pair when the metric has no entry.
func (c Config) Threshold(metric string) Threshold {
	if t, ok := c.Thresholds[metric]; ok {
		return t
	}
	return DefaultConfig().Thresholds[metric]
}

// Validate checks structural constraints.
func (c Config) Validate() error {
	w := c.PriorityWeights
	for _, cat := range types.Categories {
		v := w.Weight(cat)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("priority_weights.%s must be a non-negative number, got %v", cat, v)
		}
	}
	for name, t := range c.Thresholds {
		if math.IsNaN(t.Warning) || math.IsInf(t.Warning, 0) ||
			math.IsNaN(t.Critical) || math.IsInf(t.Critical, 0) {
			return fmt.Errorf("thresholds.%s must be finite", name)
		}
	}
	l := c.DisplayLimits
	if l.MaxIndicatorsPerSection < 1 {
		return fmt.Errorf("display_limits.max_indicators_per_section must be at least 1")
	}
	if l.MaxSections < 1 {
		return fmt.Errorf("display_limits.max_sections must be at least 1")
	}
	if l.CompactModeIndicators < 1 {
		return fmt.Errorf("display_limits.compact_mode_indicators must be at least 1")
	}
	return nil
}

// Overrides is a partial Config. Nil fields keep the base value. The same
// type is read from the server's YAML file and from per-request JSON.
type Overrides struct {
	PriorityWeights *WeightOverrides     `yaml:"priority_weights" json:"priorityWeights,omitempty"`
	Thresholds      map[string]Threshold `yaml:"thresholds" json:"thresholds,omitempty"`
	DisplayLimits   *LimitOverrides      `yaml:"display_limits" json:"displayLimits,omitempty"`
}

// WeightOverrides overrides individual category weights.
type WeightOverrides struct {
	Performance *float64 `yaml:"performance" json:"performance,omitempty"`
	System      *float64 `yaml:"system" json:"system,omitempty"`
	Activity    *float64 `yaml:"activity" json:"activity,omitempty"`
	Health      *float64 `yaml:"health" json:"health,omitempty"`
}

// LimitOverrides overrides individual display limits.
type LimitOverrides struct {
	MaxIndicatorsPerSection *int `yaml:"max_indicators_per_section" json:"maxIndicatorsPerSection,omitempty"`
	MaxSections             *int `yaml:"max_sections" json:"maxSections,omitempty"`
	CompactModeIndicators   *int `yaml:"compact_mode_indicators" json:"compactModeIndicators,omitempty"`
}

// Apply returns a copy of c with every field set in o replaced.
// Threshold entries are merged per metric.
func (c Config) Apply(o Overrides) Config {
	out := Config{
		PriorityWeights: c.PriorityWeights,
		Thresholds:      make(map[string]Threshold, len(c.Thresholds)+len(o.Thresholds)),
		DisplayLimits:   c.DisplayLimits,
	}
	for k, v := range c.Thresholds {
		out.Thresholds[k] = v
	}
	for k, v := range o.Thresholds {
		out.Thresholds[k] = v
	}

	if w := o.PriorityWeights; w != nil {
		setFloat(&out.PriorityWeights.Performance, w.Performance)
		setFloat(&out.PriorityWeights.System, w.System)
		setFloat(&out.PriorityWeights.Activity, w.Activity)
		setFloat(&out.PriorityWeights.Health, w.Health)
	}
	if l := o.DisplayLimits; l != nil {
		setInt(&out.DisplayLimits.MaxIndicatorsPerSection, l.MaxIndicatorsPerSection)
		setInt(&out.DisplayLimits.MaxSections, l.MaxSections)
		setInt(&out.DisplayLimits.CompactModeIndicators, l.CompactModeIndicators)
	}
	return out
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
