package api

import (
	"time"

	"github.com/propdash/propdash/pkg/types"
	"github.com/propdash/propdash/server/internal/compute"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	TenantCount   int    `json:"tenantCount"`
	HealthyCount  int    `json:"healthyCount"`
	WarningCount  int    `json:"warningCount"`
	CriticalCount int    `json:"criticalCount"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate: a raw snapshot with
// an optional engine override applied to this request only.
type EvaluateRequest struct {
	types.RawSnapshot
	Config *compute.Overrides `json:"config,omitempty"`
}

// IndicatorView is an indicator decorated with its display icon.
type IndicatorView struct {
	types.Indicator
	Icon string `json:"icon"`
}

// SectionView is a section whose indicators carry icons.
type SectionView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Indicators  []IndicatorView `json:"indicators"`
	Layout      types.Layout    `json:"layout"`
	Columns     int             `json:"columns,omitempty"`
	Priority    types.Priority  `json:"priority"`
	Collapsible bool            `json:"collapsible"`
}

// DashboardResponse is the payload for GET /api/v1/tenants/{id}/dashboard
// and POST /api/v1/evaluate.
type DashboardResponse struct {
	TenantID     string               `json:"tenantId,omitempty"`
	Sections     []SectionView        `json:"sections"`
	Compact      []IndicatorView      `json:"compact,omitempty"`
	Summary      types.Summary        `json:"summary"`
	SystemStatus types.SystemStatus   `json:"systemStatus"`
	Derived      types.DerivedMetrics `json:"derived"`
	LastSeen     *time.Time           `json:"lastSeen,omitempty"`
}

// TenantResponse is one entry in GET /api/v1/tenants.
type TenantResponse struct {
	TenantID    string              `json:"tenantId"`
	Overall     types.OverallStatus `json:"overall"`
	HealthScore types.HealthScore   `json:"healthScore"`
	LastSeen    time.Time           `json:"lastSeen"`
}

// IngestResponse acknowledges PUT /api/v1/tenants/{id}/snapshot.
type IngestResponse struct {
	TenantID   string    `json:"tenantId"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
