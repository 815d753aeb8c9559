package compute

import "github.com/propdash/propdash/pkg/types"

// Section IDs.
const (
	SectionMain     = "main-metrics"
	SectionActivity = "activity"
	SectionSystem   = "system-health"
)

// Organize groups an already-prioritized indicator list into display
// sections: Main Metrics, Activity, System Health, in that order. Empty
// sections are omitted. Sections are independent views over the same pool,
// so an indicator can appear in more than one.
func Organize(prioritized []types.Indicator, l DisplayLimits) []types.Section {
	perSection := l.MaxIndicatorsPerSection
	var sections []types.Section

	main := filter(prioritized, func(i types.Indicator) bool {
		return i.Priority == types.PriorityHigh
	})
	if len(main) > 0 {
		sections = append(sections, types.Section{
			ID:          SectionMain,
			Title:       "Main Metrics",
			Description: "Key indicators that need attention first",
			Indicators:  truncate(main, min(mainMetricsCap, perSection)),
			Layout:      types.LayoutGrid,
			Columns:     4,
			Priority:    types.PriorityHigh,
		})
	}

	activity := filter(prioritized, func(i types.Indicator) bool {
		return i.Category == types.CategoryActivity
	})
	if len(activity) > 0 {
		sections = append(sections, types.Section{
			ID:          SectionActivity,
			Title:       "Activity",
			Description: "Job and schedule activity",
			Indicators:  truncate(activity, perSection),
			Layout:      types.LayoutGrid,
			Columns:     3,
			Priority:    types.PriorityMedium,
			Collapsible: true,
		})
	}

	system := filter(prioritized, func(i types.Indicator) bool {
		return i.Category == types.CategorySystem || i.Category == types.CategoryHealth
	})
	if len(system) > 0 {
		sections = append(sections, types.Section{
			ID:          SectionSystem,
			Title:       "System Health",
			Description: "Platform, worker and queue state",
			Indicators:  truncate(system, perSection),
			Layout:      types.LayoutHorizontal,
			Priority:    types.PriorityMedium,
			Collapsible: true,
		})
	}

	if l.MaxSections > 0 && len(sections) > l.MaxSections {
		sections = sections[:l.MaxSections]
	}
	return sections
}

// Compact returns the first CompactModeIndicators indicators of an
// already-prioritized list, for the compact dashboard widget.
func Compact(prioritized []types.Indicator, l DisplayLimits) []types.Indicator {
	return truncate(prioritized, l.CompactModeIndicators)
}

func filter(inds []types.Indicator, keep func(types.Indicator) bool) []types.Indicator {
	var out []types.Indicator
	for _, i := range inds {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

// truncate returns at most n leading elements of inds as a new slice.
// A non-positive n means no cap.
func truncate(inds []types.Indicator, n int) []types.Indicator {
	if n > 0 && len(inds) > n {
		inds = inds[:n]
	}
	out := make([]types.Indicator, len(inds))
	copy(out, inds)
	return out
}
