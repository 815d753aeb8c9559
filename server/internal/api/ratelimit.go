package api

import (
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// tenantLimiter holds one token bucket per tenant for snapshot uploads.
type tenantLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func newTenantLimiter(perMinute float64, burst int) *tenantLimiter {
	return &tenantLimiter{
		limit:   rate.Every(time.Duration(float64(time.Minute) / perMinute)),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

// allow reports whether tenantID may upload at now. When it may not, wait
// is how long until the next upload would be accepted. A nil limiter allows
// everything.
func (l *tenantLimiter) allow(tenantID string, now time.Time) (ok bool, wait time.Duration) {
	if l == nil {
		return true, 0
	}
	l.mu.Lock()
	b, found := l.buckets[tenantID]
	if !found {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[tenantID] = b
	}
	l.mu.Unlock()

	r := b.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// retryAfterSeconds renders wait as a Retry-After value: whole seconds,
// rounded up, at least 1.
func retryAfterSeconds(wait time.Duration) string {
	secs := int64(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

// forget drops the buckets of evicted tenants.
func (l *tenantLimiter) forget(ids []string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		delete(l.buckets, id)
	}
}
