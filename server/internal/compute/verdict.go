package compute

import (
	"fmt"
	"time"

	"github.com/propdash/propdash/pkg/types"
)

// Fixed recommendation texts.
const (
	RecInvestigateCritical = "Investigate critical components immediately"
	RecMonitorWarnings     = "Monitor components in warning state"
	RecActivateSchedules   = "Activate schedules to enable automatic processing"
)

// Summarize counts inds by color. now becomes Summary.LastUpdated.
func Summarize(inds []types.Indicator, now time.Time) types.Summary {
	s := types.Summary{
		TotalIndicators: len(inds),
		LastUpdated:     now,
	}
	for _, i := range inds {
		switch i.Color {
		case types.ColorSuccess:
			s.SuccessCount++
		case types.ColorWarning:
			s.WarningCount++
		case types.ColorDanger:
			s.DangerCount++
		}
	}
	return s
}

// Verdict walks the indicators by severity and produces the overall status.
// Danger indicators make the system critical; otherwise warning indicators
// make it warning. Free-text issues from the health document and the
// schedule-activation hint from the stats document are appended after.
// Issues and recommendations are deduplicated, keeping first occurrence.
func Verdict(inds []types.Indicator, snap *types.RawSnapshot) types.SystemStatus {
	st := types.SystemStatus{Overall: types.OverallHealthy}

	danger := filterColor(inds, types.ColorDanger)
	warning := filterColor(inds, types.ColorWarning)

	switch {
	case len(danger) > 0:
		st.Overall = types.OverallCritical
		for _, i := range danger {
			st.Issues = append(st.Issues, issueText(i, "Critical"))
		}
		st.Recommendations = append(st.Recommendations, RecInvestigateCritical)
	case len(warning) > 0:
		st.Overall = types.OverallWarning
		for _, i := range warning {
			st.Issues = append(st.Issues, issueText(i, "Warning"))
		}
		st.Recommendations = append(st.Recommendations, RecMonitorWarnings)
	}

	if snap != nil {
		if snap.Health != nil {
			st.Issues = append(st.Issues, snap.Health.Issues...)
		}
		if snap.Stats != nil && snap.Stats.ActiveSchedules == 0 {
			st.Recommendations = append(st.Recommendations, RecActivateSchedules)
		}
	}

	st.Issues = dedupe(st.Issues)
	st.Recommendations = dedupe(st.Recommendations)
	return st
}

func filterColor(inds []types.Indicator, c types.Color) []types.Indicator {
	return filter(inds, func(i types.Indicator) bool { return i.Color == c })
}

// issueText formats "{label}: {trendLabel}", using fallback when the
// indicator has no trend label.
func issueText(i types.Indicator, fallback string) string {
	tl := i.TrendLabel
	if tl == "" {
		tl = fallback
	}
	return fmt.Sprintf("%s: %s", i.Label, tl)
}

// dedupe removes repeated strings, preserving the order of first
// occurrence. It always returns a non-nil slice so the JSON is [] not null.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
