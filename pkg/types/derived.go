package types

// ScoreStatus is the status attached to the deduction-based health score.
// It is a separate vocabulary from OverallStatus on purpose: the two are
// produced by different algorithms and may disagree.
type ScoreStatus string

const (
	ScoreHealthy ScoreStatus = "healthy"
	ScoreWarning ScoreStatus = "warning"
	ScoreError   ScoreStatus = "error"
)

// HealthScore is a 0–100 score with its status.
type HealthScore struct {
	Score  int         `json:"score"`
	Status ScoreStatus `json:"status"`
}

// DerivedMetrics holds the ratios computed directly from a RawSnapshot,
// surfaced alongside (not merged into) the indicator pipeline's output.
type DerivedMetrics struct {
	ScheduleUtilization      int         `json:"scheduleUtilization"`
	AvgPropertiesPerSchedule int         `json:"avgPropertiesPerSchedule"`
	SchedulesWithIssues      int         `json:"schedulesWithIssues"`
	NextExecution            *Execution  `json:"nextExecution"`
	OverallHealth            HealthScore `json:"overallHealth"`
}
