package collector

import (
	"math"

	dto "github.com/prometheus/client_model/go"

	"github.com/propdash/propdash/pkg/types"
)

// Metric names read from the job worker's metrics page.
const (
	metricWorkerUp     = "worker_up"
	metricQueuePending = "job_queue_pending"
)

// WorkerReading is what the worker metrics page says about the worker and
// its queue. Nil fields were not exposed.
type WorkerReading struct {
	Worker      types.Connectivity
	PendingJobs *int
}

// readWorker extracts a WorkerReading from parsed metric families. worker_up
// is connected when any series reports a value above zero. job_queue_pending
// is summed across series (e.g. one per queue).
func readWorker(mfs map[string]*dto.MetricFamily) WorkerReading {
	var r WorkerReading
	if mf, ok := mfs[metricWorkerUp]; ok && len(mf.GetMetric()) > 0 {
		r.Worker = types.Disconnected
		if sumFamily(mf) > 0 {
			r.Worker = types.Connected
		}
	}
	if mf, ok := mfs[metricQueuePending]; ok && len(mf.GetMetric()) > 0 {
		n := int(math.Round(sumFamily(mf)))
		r.PendingJobs = &n
	}
	return r
}

// mergeWorker fills the fields of h the health document left empty. It
// returns h, allocating one when h is nil and the reading has data.
func mergeWorker(h *types.Health, r WorkerReading) *types.Health {
	if r.Worker == "" && r.PendingJobs == nil {
		return h
	}
	if h == nil {
		h = &types.Health{}
	}
	if h.Worker == "" {
		h.Worker = r.Worker
	}
	if h.PendingJobs == nil {
		h.PendingJobs = r.PendingJobs
	}
	return h
}
