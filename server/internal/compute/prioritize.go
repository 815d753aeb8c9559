package compute

import (
	"sort"

	"github.com/propdash/propdash/pkg/types"
)

// priorityTier ranks priorities; higher sorts first.
func priorityTier(p types.Priority) int {
	switch p {
	case types.PriorityHigh:
		return 3
	case types.PriorityMedium:
		return 2
	case types.PriorityLow:
		return 1
	default:
		return 0
	}
}

// colorSeverity ranks colors; higher sorts first so problems surface ahead
// of healthy indicators with the same priority and category.
func colorSeverity(c types.Color) int {
	switch c {
	case types.ColorDanger:
		return 4
	case types.ColorWarning:
		return 3
	case types.ColorSuccess:
		return 2
	case types.ColorPrimary:
		return 1
	default:
		return 0
	}
}

// Prioritize returns a copy of inds ordered by priority tier, then category
// weight, then color severity, all descending. The sort is stable, so
// indicators that tie on all three keep their extraction order.
func Prioritize(inds []types.Indicator, w PriorityWeights) []types.Indicator {
	out := make([]types.Indicator, len(inds))
	copy(out, inds)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], w)
	})
	return out
}

// less reports whether a sorts before b.
func less(a, b types.Indicator, w PriorityWeights) bool {
	if pa, pb := priorityTier(a.Priority), priorityTier(b.Priority); pa != pb {
		return pa > pb
	}
	if wa, wb := w.Weight(a.Category), w.Weight(b.Category); wa != wb {
		return wa > wb
	}
	return colorSeverity(a.Color) > colorSeverity(b.Color)
}
