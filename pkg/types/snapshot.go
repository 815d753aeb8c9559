package types

import "time"

// SystemState is the platform-wide status reported by the health prober.
type SystemState string

const (
	SystemHealthy SystemState = "healthy"
	SystemWarning SystemState = "warning"
	SystemError   SystemState = "error"
)

// Connectivity is the reachability of the job worker.
type Connectivity string

const (
	Connected    Connectivity = "connected"
	Disconnected Connectivity = "disconnected"
)

// Job status values as reported by the schedule/job repository.
const (
	JobCompleted = "completed"
	JobFailed    = "failed"
	JobPending   = "pending"
	JobRunning   = "running"
)

// RawSnapshot is the point-in-time aggregate of everything the engine consumes.
// Every sub-document is optional; a nil pointer or empty slice means the
// upstream source did not provide it.
type RawSnapshot struct {
	Stats              *Stats      `json:"stats,omitempty"`
	Health             *Health     `json:"health,omitempty"`
	Schedules          []Schedule  `json:"schedules,omitempty"`
	RecentJobs         []Job       `json:"recentJobs,omitempty"`
	UpcomingExecutions []Execution `json:"upcomingExecutions,omitempty"`
}

// Stats is the statistics provider's document.
type Stats struct {
	TotalSchedules  int       `json:"totalSchedules"`
	ActiveSchedules int       `json:"activeSchedules"`
	TotalProperties int       `json:"totalProperties"`
	Jobs24h         *JobTally `json:"jobs24h,omitempty"`
}

// JobTally counts job outcomes over the last 24 hours.
type JobTally struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}

// Health is the worker/queue prober's document.
// Status and Worker are empty when not reported. PendingJobs is a pointer
// because zero pending jobs is a meaningful reading.
type Health struct {
	Status      SystemState  `json:"status,omitempty"`
	Worker      Connectivity `json:"worker,omitempty"`
	PendingJobs *int         `json:"pendingJobs,omitempty"`
	Issues      []string     `json:"issues,omitempty"`
	LastCheck   *time.Time   `json:"lastCheck,omitempty"`
}

// Schedule is one processing schedule from the schedule repository.
type Schedule struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	NextRunAt     *time.Time `json:"nextRunAt,omitempty"`
	LastRunAt     *time.Time `json:"lastRunAt,omitempty"`
	PropertyCount int        `json:"propertyCount"`
}

// Job is one recent job execution record.
type Job struct {
	ID          string     `json:"id"`
	ScheduleID  string     `json:"scheduleId"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Execution is one upcoming scheduled run. Lists of executions are sorted
// by RunAt ascending by the repository that produces them.
type Execution struct {
	ScheduleID   string    `json:"scheduleId"`
	ScheduleName string    `json:"scheduleName"`
	RunAt        time.Time `json:"runAt"`
}

// IntPtr returns a pointer to v. Handy for building Health documents.
func IntPtr(v int) *int { return &v }
