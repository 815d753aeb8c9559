package api

import (
	"github.com/propdash/propdash/pkg/types"
	"github.com/propdash/propdash/server/internal/compute"
)

// defaultIcon is used for indicators without a dedicated icon.
const defaultIcon = "info"

// icons maps indicator IDs to the icon names the dashboard renders.
var icons = map[string]string{
	compute.IDSuccessRate:     "check-circle",
	compute.IDEfficiency:      "gauge",
	compute.IDSystemStatus:    "server",
	compute.IDWorkerStatus:    "cpu",
	compute.IDJobsExecuted:    "activity",
	compute.IDActiveSchedules: "calendar",
	compute.IDTotalProperties: "home",
	compute.IDPendingJobs:     "clock",
}

// iconFor returns the icon name for an indicator ID.
func iconFor(id string) string {
	if icon, ok := icons[id]; ok {
		return icon
	}
	return defaultIcon
}

func decorate(inds []types.Indicator) []IndicatorView {
	out := make([]IndicatorView, 0, len(inds))
	for _, i := range inds {
		out = append(out, IndicatorView{Indicator: i, Icon: iconFor(i.ID)})
	}
	return out
}

// toDashboardResponse maps an engine report to its JSON representation.
// The compact list is included only when compact is set.
func toDashboardResponse(rep compute.Report, compact bool) DashboardResponse {
	sections := make([]SectionView, 0, len(rep.Sections))
	for _, s := range rep.Sections {
		sections = append(sections, SectionView{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Indicators:  decorate(s.Indicators),
			Layout:      s.Layout,
			Columns:     s.Columns,
			Priority:    s.Priority,
			Collapsible: s.Collapsible,
		})
	}
	resp := DashboardResponse{
		Sections:     sections,
		Summary:      rep.Summary,
		SystemStatus: rep.SystemStatus,
		Derived:      rep.Derived,
	}
	if compact {
		resp.Compact = decorate(rep.Compact)
	}
	return resp
}
