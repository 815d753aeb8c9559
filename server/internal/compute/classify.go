package compute

import "github.com/propdash/propdash/pkg/types"

// ClassifyAscending classifies a metric where higher is better (success
// rate, efficiency): at or above warning is up, at or below critical is
// down, anything between is stable.
func ClassifyAscending(v float64, t Threshold) types.Trend {
	switch {
	case v >= t.Warning:
		return types.TrendUp
	case v <= t.Critical:
		return types.TrendDown
	default:
		return types.TrendStable
	}
}

// ClassifyDescending classifies a metric where lower is better (queue
// depth): above critical is down, above warning is stable, otherwise up.
func ClassifyDescending(v float64, t Threshold) types.Trend {
	switch {
	case v > t.Critical:
		return types.TrendDown
	case v > t.Warning:
		return types.TrendStable
	default:
		return types.TrendUp
	}
}

// colorFromTrend maps a threshold trend onto a severity color.
func colorFromTrend(tr types.Trend) types.Color {
	switch tr {
	case types.TrendUp:
		return types.ColorSuccess
	case types.TrendDown:
		return types.ColorDanger
	default:
		return types.ColorWarning
	}
}

// safeDivide returns a/b, or 0 when b is zero.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
