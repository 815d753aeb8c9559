package compute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash/pkg/types"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative weight", func(c *Config) { c.PriorityWeights.Activity = -0.1 }, "priority_weights.activity"},
		{"nan weight", func(c *Config) { c.PriorityWeights.System = math.NaN() }, "priority_weights.system"},
		{"infinite threshold", func(c *Config) {
			c.Thresholds[MetricPendingJobs] = Threshold{Warning: math.Inf(1), Critical: 25}
		}, "thresholds.pendingJobs"},
		{"zero per section", func(c *Config) { c.DisplayLimits.MaxIndicatorsPerSection = 0 }, "max_indicators_per_section"},
		{"zero sections", func(c *Config) { c.DisplayLimits.MaxSections = 0 }, "max_sections"},
		{"zero compact", func(c *Config) { c.DisplayLimits.CompactModeIndicators = -3 }, "compact_mode_indicators"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_ZeroWeightsAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PriorityWeights = PriorityWeights{}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ThresholdFallback(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, Threshold{Warning: 10, Critical: 25}, cfg.Threshold(MetricPendingJobs))
	assert.Equal(t, Threshold{}, cfg.Threshold("unknown"))
}

func TestConfig_ApplySubset(t *testing.T) {
	base := DefaultConfig()
	sys := 2.5
	perSection := 9
	got := base.Apply(Overrides{
		PriorityWeights: &WeightOverrides{System: &sys},
		Thresholds:      map[string]Threshold{MetricEfficiency: {Warning: 90, Critical: 40}},
		DisplayLimits:   &LimitOverrides{MaxIndicatorsPerSection: &perSection},
	})

	assert.Equal(t, 2.5, got.PriorityWeights.System)
	assert.Equal(t, base.PriorityWeights.Performance, got.PriorityWeights.Performance)
	assert.Equal(t, base.PriorityWeights.Activity, got.PriorityWeights.Activity)
	assert.Equal(t, base.PriorityWeights.Health, got.PriorityWeights.Health)

	assert.Equal(t, Threshold{Warning: 90, Critical: 40}, got.Threshold(MetricEfficiency))
	assert.Equal(t, base.Threshold(MetricSuccessRate), got.Threshold(MetricSuccessRate))

	assert.Equal(t, 9, got.DisplayLimits.MaxIndicatorsPerSection)
	assert.Equal(t, base.DisplayLimits.MaxSections, got.DisplayLimits.MaxSections)

	// base must not see the override
	assert.Equal(t, Threshold{Warning: 70, Critical: 50}, base.Threshold(MetricEfficiency))
	assert.Equal(t, 0.9, base.PriorityWeights.System)
}

func TestConfig_ApplyEmpty(t *testing.T) {
	base := DefaultConfig()
	assert.Equal(t, base, base.Apply(Overrides{}))
}

func TestPriorityWeights_Weight(t *testing.T) {
	w := DefaultConfig().PriorityWeights
	assert.Equal(t, 1.0, w.Weight(types.CategoryPerformance))
	assert.Equal(t, 0.9, w.Weight(types.CategorySystem))
	assert.Equal(t, 0.7, w.Weight(types.CategoryActivity))
	assert.Equal(t, 0.8, w.Weight(types.CategoryHealth))
	assert.Equal(t, 0.0, w.Weight("other"))
}
