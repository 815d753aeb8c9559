package compute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash/pkg/types"
)

func TestExtract_NilSnapshot(t *testing.T) {
	assert.Empty(t, Extract(nil, DefaultConfig()))
	assert.Empty(t, Extract(&types.RawSnapshot{}, DefaultConfig()))
}

func TestExtractPerformance_Excellent(t *testing.T) {
	inds := ExtractPerformance(&types.Stats{
		TotalSchedules:  10,
		ActiveSchedules: 8,
		Jobs24h:         &types.JobTally{Total: 100, Completed: 95, Failed: 5},
	}, DefaultConfig())
	require.Len(t, inds, 2)

	sr := find(t, inds, IDSuccessRate)
	assert.Equal(t, 95.0, num(t, sr.Value))
	assert.Equal(t, "Excellent", sr.TrendLabel)
	assert.Equal(t, types.ColorSuccess, sr.Color)
	assert.Equal(t, types.TrendUp, sr.Trend)
	assert.Equal(t, types.PriorityHigh, sr.Priority)
	assert.Equal(t, "%", sr.Suffix)
	require.NotNil(t, sr.TrendValue)
	assert.Equal(t, 5.0, *sr.TrendValue)

	eff := find(t, inds, IDEfficiency)
	assert.Equal(t, 80.0, num(t, eff.Value))
	assert.Equal(t, "Excellent", eff.TrendLabel)
	assert.Equal(t, types.ColorSuccess, eff.Color)
	assert.Equal(t, types.TrendUp, eff.Trend)
}

func TestExtractPerformance_DivideByZero(t *testing.T) {
	inds := ExtractPerformance(&types.Stats{
		Jobs24h: &types.JobTally{},
	}, DefaultConfig())
	require.Len(t, inds, 2)

	for _, i := range inds {
		v := num(t, i.Value)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s: got %v", i.ID, v)
		assert.Equal(t, 0.0, v, i.ID)
		assert.Equal(t, types.TrendDown, i.Trend, i.ID)
		assert.Equal(t, types.ColorDanger, i.Color, i.ID)
	}
}

func TestExtractPerformance_MissingTallyOmitsSuccessRate(t *testing.T) {
	inds := ExtractPerformance(&types.Stats{TotalSchedules: 4, ActiveSchedules: 3}, DefaultConfig())
	assert.Equal(t, []string{IDEfficiency}, ids(inds))
	assert.Equal(t, 75.0, num(t, find(t, inds, IDEfficiency).Value))
}

func TestConsolidate_MissingTallyStaysHealthy(t *testing.T) {
	res := newTestEngine(t).Consolidate(&types.RawSnapshot{
		Stats: &types.Stats{TotalSchedules: 5, ActiveSchedules: 5, TotalProperties: 10},
	})
	for _, sec := range res.Sections {
		assert.NotContains(t, ids(sec.Indicators), IDSuccessRate, sec.ID)
	}
	assert.Equal(t, 0, res.Summary.DangerCount)
	assert.Equal(t, types.OverallHealthy, res.SystemStatus.Overall)
	assert.Empty(t, res.SystemStatus.Issues)
}

func TestExtractPerformance_Buckets(t *testing.T) {
	cases := []struct {
		completed int
		label     string
		color     types.Color
		trend     types.Trend
	}{
		{90, "Excellent", types.ColorSuccess, types.TrendUp},
		{85, "Good", types.ColorWarning, types.TrendUp},
		{70, "Good", types.ColorWarning, types.TrendStable},
		{60, "Critical", types.ColorDanger, types.TrendDown},
	}
	for _, tc := range cases {
		inds := ExtractPerformance(&types.Stats{
			Jobs24h: &types.JobTally{Total: 100, Completed: tc.completed},
		}, DefaultConfig())
		sr := find(t, inds, IDSuccessRate)
		assert.Equal(t, tc.label, sr.TrendLabel, "completed=%d", tc.completed)
		assert.Equal(t, tc.color, sr.Color, "completed=%d", tc.completed)
		assert.Equal(t, tc.trend, sr.Trend, "completed=%d", tc.completed)
	}
}

func TestExtractPerformance_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds[MetricSuccessRate] = Threshold{Warning: 99, Critical: 96}

	inds := ExtractPerformance(&types.Stats{
		Jobs24h: &types.JobTally{Total: 100, Completed: 95},
	}, cfg)
	assert.Equal(t, types.TrendDown, find(t, inds, IDSuccessRate).Trend)
}

func TestExtractSystem(t *testing.T) {
	cases := []struct {
		status types.SystemState
		label  string
		color  types.Color
	}{
		{types.SystemHealthy, "Operational", types.ColorSuccess},
		{types.SystemWarning, "Attention", types.ColorWarning},
		{types.SystemError, "Critical", types.ColorDanger},
		{"maintenance", "Unknown", types.ColorSecondary},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			inds := ExtractSystem(&types.Health{Status: tc.status})
			require.Len(t, inds, 1)
			ind := inds[0]
			assert.Equal(t, IDSystemStatus, ind.ID)
			assert.Equal(t, tc.label, ind.Value.String())
			assert.Equal(t, tc.color, ind.Color)
			assert.Equal(t, types.TrendStable, ind.Trend)
			assert.Equal(t, types.PriorityHigh, ind.Priority)
			assert.Equal(t, types.CategorySystem, ind.Category)
		})
	}
}

func TestExtractSystem_Worker(t *testing.T) {
	online := ExtractSystem(&types.Health{Worker: types.Connected})
	require.Len(t, online, 1)
	assert.Equal(t, "Online", online[0].Value.String())
	assert.Equal(t, types.ColorSuccess, online[0].Color)

	offline := ExtractSystem(&types.Health{Worker: types.Disconnected})
	require.Len(t, offline, 1)
	assert.Equal(t, "Offline", offline[0].Value.String())
	assert.Equal(t, types.ColorDanger, offline[0].Color)
}

func TestExtractSystem_NothingReported(t *testing.T) {
	assert.Empty(t, ExtractSystem(nil))
	assert.Empty(t, ExtractSystem(&types.Health{PendingJobs: types.IntPtr(4)}))
}

func TestExtractActivity(t *testing.T) {
	inds := ExtractActivity(&types.Stats{
		TotalSchedules:  10,
		ActiveSchedules: 8,
		TotalProperties: 120,
		Jobs24h:         &types.JobTally{Total: 60},
	})
	assert.Equal(t, []string{IDJobsExecuted, IDActiveSchedules, IDTotalProperties}, ids(inds))

	jobs := find(t, inds, IDJobsExecuted)
	assert.Equal(t, types.TrendUp, jobs.Trend)
	assert.Equal(t, "High volume", jobs.TrendLabel)
	assert.Equal(t, types.PriorityMedium, jobs.Priority)

	active := find(t, inds, IDActiveSchedules)
	assert.Equal(t, types.TrendUp, active.Trend)
	assert.Equal(t, "of 10 total", active.TrendLabel)
	assert.Equal(t, types.PriorityMedium, active.Priority)

	props := find(t, inds, IDTotalProperties)
	assert.Equal(t, 120.0, num(t, props.Value))
	assert.Equal(t, types.TrendStable, props.Trend)
	assert.Equal(t, types.PriorityLow, props.Priority)

	for _, i := range inds {
		assert.Equal(t, types.CategoryActivity, i.Category)
	}
}

func TestExtractActivity_Idle(t *testing.T) {
	inds := ExtractActivity(&types.Stats{TotalSchedules: 5, Jobs24h: &types.JobTally{}})
	jobs := find(t, inds, IDJobsExecuted)
	assert.Equal(t, types.TrendStable, jobs.Trend)
	assert.Equal(t, "Low volume", jobs.TrendLabel)
	assert.Equal(t, types.TrendStable, find(t, inds, IDActiveSchedules).Trend)
}

func TestExtractActivity_VolumeLabels(t *testing.T) {
	assert.Equal(t, "High volume", volumeLabel(51))
	assert.Equal(t, "Moderate volume", volumeLabel(50))
	assert.Equal(t, "Moderate volume", volumeLabel(11))
	assert.Equal(t, "Low volume", volumeLabel(10))
}

func TestExtractActivity_NoTally(t *testing.T) {
	inds := ExtractActivity(&types.Stats{TotalSchedules: 2, ActiveSchedules: 1})
	assert.Equal(t, []string{IDActiveSchedules, IDTotalProperties}, ids(inds))
}

func TestExtractHealth(t *testing.T) {
	cases := []struct {
		pending  int
		trend    types.Trend
		color    types.Color
		label    string
		priority types.Priority
	}{
		{0, types.TrendUp, types.ColorSuccess, "Empty", types.PriorityMedium},
		{8, types.TrendUp, types.ColorSuccess, "Normal", types.PriorityMedium},
		{10, types.TrendUp, types.ColorSuccess, "Normal", types.PriorityMedium},
		{15, types.TrendStable, types.ColorWarning, "Normal", types.PriorityHigh},
		{22, types.TrendStable, types.ColorWarning, "Congested", types.PriorityHigh},
		{30, types.TrendDown, types.ColorDanger, "Congested", types.PriorityHigh},
	}
	for _, tc := range cases {
		inds := ExtractHealth(&types.Health{PendingJobs: types.IntPtr(tc.pending)}, DefaultConfig())
		require.Len(t, inds, 1)
		ind := inds[0]
		assert.Equal(t, tc.trend, ind.Trend, "pending=%d", tc.pending)
		assert.Equal(t, tc.color, ind.Color, "pending=%d", tc.pending)
		assert.Equal(t, tc.label, ind.TrendLabel, "pending=%d", tc.pending)
		assert.Equal(t, tc.priority, ind.Priority, "pending=%d", tc.pending)
		assert.Equal(t, types.CategoryHealth, ind.Category)
	}
}

func TestExtractHealth_RequiresPendingJobs(t *testing.T) {
	assert.Empty(t, ExtractHealth(nil, DefaultConfig()))
	assert.Empty(t, ExtractHealth(&types.Health{Status: types.SystemHealthy}, DefaultConfig()))
}
