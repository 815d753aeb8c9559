package shipper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/propdash/propdash/agent/internal/collector"
	"github.com/propdash/propdash/agent/internal/config"
	"github.com/propdash/propdash/pkg/types"
)

const (
	backoffInitial    = 1 * time.Second
	backoffMax        = 60 * time.Second
	backoffMultiplier = 2.0
)

// Shipper buffers snapshots and PUTs them to propdash-server.
// Ship() is non-blocking; when the buffer is full the oldest snapshot is evicted.
// Run() must be called in a goroutine to drain the buffer and retry failures.
type Shipper struct {
	tenantID string
	endpoint string
	client   *http.Client
	buf      chan *types.RawSnapshot

	// retry bounds; overridden in tests
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates a Shipper for the tenant and server in cfg.
func New(cfg config.AgentConfig) (*Shipper, error) {
	client, err := collector.NewHTTPClient(cfg.ServerAuth, cfg.ServerTLS, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("shipper: %w", err)
	}
	size := cfg.BufferSize
	if size < 1 {
		size = config.DefaultBufferSize
	}
	return &Shipper{
		tenantID:       cfg.TenantID,
		endpoint:       SnapshotURL(cfg.ServerURL, cfg.TenantID),
		client:         client,
		buf:            make(chan *types.RawSnapshot, size),
		initialBackoff: backoffInitial,
		maxBackoff:     backoffMax,
	}, nil
}

// SnapshotURL returns the ingest URL for tenantID on the server at base.
func SnapshotURL(base, tenantID string) string {
	return strings.TrimRight(base, "/") + "/api/v1/tenants/" + url.PathEscape(tenantID) + "/snapshot"
}

// Ship enqueues snap. If the buffer is full the oldest entry is evicted to
// make room.
func (s *Shipper) Ship(snap *types.RawSnapshot) {
	select {
	case s.buf <- snap:
	default:
		select {
		case <-s.buf:
			slog.Warn("shipper: buffer full, evicted oldest snapshot",
				"tenant", s.tenantID, "buffer_cap", cap(s.buf))
		default:
		}
		s.buf <- snap
	}
}

// Pending returns the number of buffered snapshots.
func (s *Shipper) Pending() int {
	return len(s.buf)
}

// Run drains the buffer, sending snapshots to the server in order.
// A failed send is retried with exponential backoff until it succeeds or
// fails permanently. Run blocks until ctx is cancelled.
func (s *Shipper) Run(ctx context.Context) {
	bo := newBackoff(s.initialBackoff, s.maxBackoff)

	for {
		var snap *types.RawSnapshot
		select {
		case <-ctx.Done():
			return
		case snap = <-s.buf:
		}

		for {
			err := s.send(ctx, snap)
			if err == nil {
				bo.reset()
				slog.Debug("shipper: snapshot delivered", "tenant", s.tenantID)
				break
			}
			if ctx.Err() != nil {
				return
			}
			if isPermanentError(err) {
				slog.Error("shipper: permanent send error, discarding snapshot",
					"tenant", s.tenantID, "err", err)
				break
			}

			wait := bo.next()
			slog.Warn("shipper: send failed, will retry",
				"endpoint", s.endpoint,
				"err", err,
				"retry_in", wait,
				"pending", len(s.buf))
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}
}

// statusError is a non-2xx response from the server.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("server returned %d", e.code)
	}
	return fmt.Sprintf("server returned %d: %s", e.code, e.body)
}

// send PUTs one snapshot.
func (s *Shipper) send(ctx context.Context, snap *types.RawSnapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
}

// isPermanentError returns true for responses that indicate the snapshot
// itself or the agent's credentials are rejected and retrying cannot help.
func isPermanentError(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return se.code >= 400 && se.code < 500
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	initial time.Duration
	ceiling time.Duration
	current time.Duration
}

func newBackoff(initial, ceiling time.Duration) *backoff {
	return &backoff{initial: initial, ceiling: ceiling, current: initial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > b.ceiling {
		b.current = b.ceiling
	}
	return d
}

func (b *backoff) reset() {
	b.current = b.initial
}
