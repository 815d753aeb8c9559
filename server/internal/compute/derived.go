package compute

import (
	"math"

	"github.com/propdash/propdash/pkg/types"
)

// Deductions applied by ScoreHealth, starting from a perfect score.
const (
	scorePerfect = 100

	deductLowSuccess      = 30 // success rate below lowSuccessRate
	deductModerateSuccess = 15 // success rate below goodSuccessRate
	deductQueueBacklog    = 20 // pending jobs above backlogPendingJobs
	deductNoActive        = 25 // no active schedules

	lowSuccessRate     = 70.0
	goodSuccessRate    = 90.0
	backlogPendingJobs = 20

	// errorScoreCeiling caps the score when the platform reports an error.
	errorScoreCeiling = 25
)

// Derive computes the dashboard ratios directly from snap. It does not look
// at indicators and its health score is independent of Verdict.
func Derive(snap *types.RawSnapshot) types.DerivedMetrics {
	out := types.DerivedMetrics{
		OverallHealth: ScoreHealth(snap),
	}
	if snap == nil {
		return out
	}

	if s := snap.Stats; s != nil {
		out.ScheduleUtilization = roundInt(safeDivide(float64(s.ActiveSchedules), float64(s.TotalSchedules)) * 100)
		out.AvgPropertiesPerSchedule = roundInt(safeDivide(float64(s.TotalProperties), float64(s.ActiveSchedules)))
	}

	out.SchedulesWithIssues = SchedulesWithIssues(snap.Schedules, snap.RecentJobs)

	if len(snap.UpcomingExecutions) > 0 {
		next := snap.UpcomingExecutions[0]
		out.NextExecution = &next
	}
	return out
}

// SchedulesWithIssues counts active schedules that either have no next run
// planned or have at least one failed job among jobs.
func SchedulesWithIssues(schedules []types.Schedule, jobs []types.Job) int {
	failed := make(map[string]bool)
	for _, j := range jobs {
		if j.Status == types.JobFailed {
			failed[j.ScheduleID] = true
		}
	}

	n := 0
	for _, s := range schedules {
		if !s.Active {
			continue
		}
		if s.NextRunAt == nil || failed[s.ID] {
			n++
		}
	}
	return n
}

// ScoreHealth computes the deduction-based health score:
//
//	start at 100, status healthy
//	success rate < 70        → −30, warning
//	success rate < 90        → −15
//	pending jobs > 20        → −20, warning
//	no active schedules      → −25, warning
//	health.status == error   → score capped at 25, error
//	clamp score to ≥ 0
//
// The success-rate rule applies whenever the 24h tally is present; an empty
// tally has a success rate of 0.
func ScoreHealth(snap *types.RawSnapshot) types.HealthScore {
	score := scorePerfect
	status := types.ScoreHealthy
	if snap == nil {
		return types.HealthScore{Score: score, Status: status}
	}

	if s := snap.Stats; s != nil {
		if j := s.Jobs24h; j != nil {
			rate := safeDivide(float64(j.Completed), float64(j.Total)) * 100
			switch {
			case rate < lowSuccessRate:
				score -= deductLowSuccess
				status = types.ScoreWarning
			case rate < goodSuccessRate:
				score -= deductModerateSuccess
			}
		}
	}

	if h := snap.Health; h != nil && h.PendingJobs != nil && *h.PendingJobs > backlogPendingJobs {
		score -= deductQueueBacklog
		status = types.ScoreWarning
	}

	if s := snap.Stats; s != nil && s.ActiveSchedules == 0 {
		score -= deductNoActive
		status = types.ScoreWarning
	}

	if h := snap.Health; h != nil && h.Status == types.SystemError {
		score = min(score, errorScoreCeiling)
		status = types.ScoreError
	}

	return types.HealthScore{Score: max(score, 0), Status: status}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
