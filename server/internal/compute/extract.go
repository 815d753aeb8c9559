package compute

import (
	"fmt"
	"math"

	"github.com/propdash/propdash/pkg/types"
)

// Indicator IDs. They are stable across evaluations so clients can match
// indicators between refreshes.
const (
	IDSuccessRate     = "success-rate"
	IDEfficiency      = "efficiency"
	IDSystemStatus    = "system-status"
	IDWorkerStatus    = "worker-status"
	IDJobsExecuted    = "jobs-executed"
	IDActiveSchedules = "active-schedules"
	IDTotalProperties = "total-properties"
	IDPendingJobs     = "pending-jobs"
)

// Extract runs every extractor against snap and concatenates the results in
// category order: performance, system, activity, health. A nil snapshot
// yields no indicators.
func Extract(snap *types.RawSnapshot, cfg Config) []types.Indicator {
	if snap == nil {
		return nil
	}
	var out []types.Indicator
	out = append(out, ExtractPerformance(snap.Stats, cfg)...)
	out = append(out, ExtractSystem(snap.Health)...)
	out = append(out, ExtractActivity(snap.Stats)...)
	out = append(out, ExtractHealth(snap.Health, cfg)...)
	return out
}

// ExtractPerformance derives the success-rate and efficiency indicators.
// Success rate needs the 24h job tally; efficiency only needs the schedule
// counts.
func ExtractPerformance(s *types.Stats, cfg Config) []types.Indicator {
	if s == nil {
		return nil
	}
	var out []types.Indicator

	if j := s.Jobs24h; j != nil {
		successRate := safeDivide(float64(j.Completed), float64(j.Total)) * 100
		srLabel, srColor := successRateBucket(successRate)
		failedJobs := float64(j.Failed)
		out = append(out, types.Indicator{
			ID:          IDSuccessRate,
			Value:       types.Number(round1(successRate)),
			Label:       "Success Rate",
			Description: fmt.Sprintf("%d of %d jobs completed in the last 24h", j.Completed, j.Total),
			Trend:       ClassifyAscending(successRate, cfg.Threshold(MetricSuccessRate)),
			TrendValue:  &failedJobs,
			TrendLabel:  srLabel,
			Color:       srColor,
			Priority:    types.PriorityHigh,
			Category:    types.CategoryPerformance,
			Suffix:      "%",
		})
	}

	efficiency := safeDivide(float64(s.ActiveSchedules), float64(s.TotalSchedules)) * 100
	effLabel, effColor := efficiencyBucket(efficiency)
	out = append(out, types.Indicator{
		ID:          IDEfficiency,
		Value:       types.Number(round1(efficiency)),
		Label:       "Schedule Efficiency",
		Description: fmt.Sprintf("%d of %d schedules active", s.ActiveSchedules, s.TotalSchedules),
		Trend:       ClassifyAscending(efficiency, cfg.Threshold(MetricEfficiency)),
		TrendLabel:  effLabel,
		Color:       effColor,
		Priority:    types.PriorityHigh,
		Category:    types.CategoryPerformance,
		Suffix:      "%",
	})
	return out
}

func successRateBucket(v float64) (string, types.Color) {
	switch {
	case v >= 90:
		return "Excellent", types.ColorSuccess
	case v >= 70:
		return "Good", types.ColorWarning
	default:
		return "Critical", types.ColorDanger
	}
}

// efficiencyBucket's top bucket starts at 80, not 90.
func efficiencyBucket(v float64) (string, types.Color) {
	switch {
	case v >= 80:
		return "Excellent", types.ColorSuccess
	case v >= 70:
		return "Good", types.ColorWarning
	default:
		return "Low", types.ColorDanger
	}
}

// ExtractSystem reports the platform status and worker connectivity. Each
// indicator is emitted only when its field was reported.
func ExtractSystem(h *types.Health) []types.Indicator {
	if h == nil {
		return nil
	}
	var out []types.Indicator

	if h.Status != "" {
		label, color := systemStatusLabel(h.Status)
		out = append(out, types.Indicator{
			ID:          IDSystemStatus,
			Value:       types.Text(label),
			Label:       "System Status",
			Description: "Overall platform status",
			Trend:       types.TrendStable,
			TrendLabel:  label,
			Color:       color,
			Priority:    types.PriorityHigh,
			Category:    types.CategorySystem,
		})
	}

	if h.Worker != "" {
		label, color := "Offline", types.ColorDanger
		if h.Worker == types.Connected {
			label, color = "Online", types.ColorSuccess
		}
		out = append(out, types.Indicator{
			ID:          IDWorkerStatus,
			Value:       types.Text(label),
			Label:       "Job Worker",
			Description: "Worker and queue connectivity",
			Trend:       types.TrendStable,
			TrendLabel:  label,
			Color:       color,
			Priority:    types.PriorityHigh,
			Category:    types.CategorySystem,
		})
	}
	return out
}

func systemStatusLabel(s types.SystemState) (string, types.Color) {
	switch s {
	case types.SystemHealthy:
		return "Operational", types.ColorSuccess
	case types.SystemWarning:
		return "Attention", types.ColorWarning
	case types.SystemError:
		return "Critical", types.ColorDanger
	default:
		return "Unknown", types.ColorSecondary
	}
}

// ExtractActivity reports job volume, active schedules and covered
// properties. The jobs indicator needs the 24h tally; the other two only
// need the schedule and property counts.
func ExtractActivity(s *types.Stats) []types.Indicator {
	if s == nil {
		return nil
	}
	var out []types.Indicator

	if s.Jobs24h != nil {
		n := s.Jobs24h.Total
		trend, color := types.TrendStable, types.ColorSecondary
		if n > 0 {
			trend, color = types.TrendUp, types.ColorPrimary
		}
		out = append(out, types.Indicator{
			ID:          IDJobsExecuted,
			Value:       types.Number(float64(n)),
			Label:       "Jobs Executed",
			Description: "Jobs run in the last 24h",
			Trend:       trend,
			TrendLabel:  volumeLabel(n),
			Color:       color,
			Priority:    types.PriorityMedium,
			Category:    types.CategoryActivity,
		})
	}

	trend, color := types.TrendStable, types.ColorSecondary
	if s.ActiveSchedules > 0 {
		trend, color = types.TrendUp, types.ColorPrimary
	}
	out = append(out, types.Indicator{
		ID:          IDActiveSchedules,
		Value:       types.Number(float64(s.ActiveSchedules)),
		Label:       "Active Schedules",
		Description: "Schedules currently enabled",
		Trend:       trend,
		TrendLabel:  fmt.Sprintf("of %d total", s.TotalSchedules),
		Color:       color,
		Priority:    types.PriorityMedium,
		Category:    types.CategoryActivity,
	})

	out = append(out, types.Indicator{
		ID:          IDTotalProperties,
		Value:       types.Number(float64(s.TotalProperties)),
		Label:       "Properties",
		Description: "Properties covered by active schedules",
		Trend:       types.TrendStable,
		Color:       types.ColorSecondary,
		Priority:    types.PriorityLow,
		Category:    types.CategoryActivity,
	})
	return out
}

func volumeLabel(n int) string {
	switch {
	case n > 50:
		return "High volume"
	case n > 10:
		return "Moderate volume"
	default:
		return "Low volume"
	}
}

// ExtractHealth classifies the job queue depth. Lower is better.
func ExtractHealth(h *types.Health, cfg Config) []types.Indicator {
	if h == nil || h.PendingJobs == nil {
		return nil
	}
	n := *h.PendingJobs
	t := cfg.Threshold(MetricPendingJobs)
	trend := ClassifyDescending(float64(n), t)

	prio := types.PriorityMedium
	if float64(n) > t.Warning {
		prio = types.PriorityHigh
	}

	return []types.Indicator{{
		ID:          IDPendingJobs,
		Value:       types.Number(float64(n)),
		Label:       "Pending Jobs",
		Description: "Jobs waiting in the queue",
		Trend:       trend,
		TrendLabel:  queueLabel(n),
		Color:       colorFromTrend(trend),
		Priority:    prio,
		Category:    types.CategoryHealth,
	}}
}

func queueLabel(n int) string {
	switch {
	case n > 20:
		return "Congested"
	case n > 5:
		return "Normal"
	default:
		return "Empty"
	}
}

// round1 rounds v to one decimal place for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
