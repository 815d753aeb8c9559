package compute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash/pkg/types"
)

// baseTime is a fixed reference point so summary timestamps are deterministic.
var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestEngine returns an Engine with the default config and a fixed clock.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	e.now = func() time.Time { return baseTime }
	return e
}

// fullSnapshot has every sub-document populated with healthy values.
func fullSnapshot() *types.RawSnapshot {
	return &types.RawSnapshot{
		Stats: &types.Stats{
			TotalSchedules:  10,
			ActiveSchedules: 8,
			TotalProperties: 120,
			Jobs24h:         &types.JobTally{Total: 100, Completed: 95, Failed: 5},
		},
		Health: &types.Health{
			Status:      types.SystemHealthy,
			Worker:      types.Connected,
			PendingJobs: types.IntPtr(3),
		},
	}
}

func ids(inds []types.Indicator) []string {
	out := make([]string, 0, len(inds))
	for _, i := range inds {
		out = append(out, i.ID)
	}
	return out
}

func find(t *testing.T, inds []types.Indicator, id string) types.Indicator {
	t.Helper()
	for _, i := range inds {
		if i.ID == id {
			return i
		}
	}
	require.Failf(t, "indicator not found", "id %q in %v", id, ids(inds))
	return types.Indicator{}
}

func num(t *testing.T, v types.Value) float64 {
	t.Helper()
	f, ok := v.Float()
	require.True(t, ok, "value %q is not numeric", v.String())
	return f
}
