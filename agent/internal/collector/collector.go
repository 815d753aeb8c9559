package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/propdash/propdash/agent/internal/config"
	"github.com/propdash/propdash/pkg/types"
)

// source is one configured endpoint with its ready-to-use client.
type source struct {
	name   string
	url    string
	client *http.Client
}

// Collector assembles a RawSnapshot for one tenant from the configured
// endpoints. It is safe for concurrent use.
type Collector struct {
	tenantID string
	sources  []source
}

// New builds a Collector with one HTTP client per configured source.
func New(cfg config.AgentConfig) (*Collector, error) {
	c := &Collector{tenantID: cfg.TenantID}
	for _, n := range cfg.Sources.Configured() {
		client, err := NewHTTPClient(n.Endpoint.Auth, n.Endpoint.TLS, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("collector: source %s: %w", n.Name, err)
		}
		c.sources = append(c.sources, source{name: n.Name, url: n.Endpoint.URL, client: client})
	}
	return c, nil
}

// Sources returns the names of the configured sources in collection order.
func (c *Collector) Sources() []string {
	out := make([]string, len(c.sources))
	for i, s := range c.sources {
		out[i] = s.name
	}
	return out
}

// Collect fetches every configured source concurrently and returns the
// assembled snapshot. A source that fails is logged and its sub-document
// left absent. The only error returned is the context's.
func (c *Collector) Collect(ctx context.Context) (*types.RawSnapshot, error) {
	var (
		snap   types.RawSnapshot
		worker WorkerReading
		g      errgroup.Group
	)

	for _, s := range c.sources {
		s := s
		g.Go(func() error {
			start := time.Now()
			err := c.fetch(ctx, s, &snap, &worker)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("collector: source failed",
						"tenant", c.tenantID, "source", s.name, "url", s.url, "err", err)
				}
				return nil
			}
			slog.Debug("collector: source fetched",
				"tenant", c.tenantID, "source", s.name, "took", time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collector: %w", err)
	}
	snap.Health = mergeWorker(snap.Health, worker)
	return &snap, nil
}

// fetch loads one source into its own field of snap or worker. Each source
// writes a distinct field, so concurrent fetches do not race.
func (c *Collector) fetch(ctx context.Context, s source, snap *types.RawSnapshot, worker *WorkerReading) error {
	switch s.name {
	case config.SourceStats:
		var v types.Stats
		if err := fetchJSON(ctx, s.client, s.url, &v); err != nil {
			return err
		}
		snap.Stats = &v
	case config.SourceHealth:
		var v types.Health
		if err := fetchJSON(ctx, s.client, s.url, &v); err != nil {
			return err
		}
		snap.Health = &v
	case config.SourceSchedules:
		var v []types.Schedule
		if err := fetchJSON(ctx, s.client, s.url, &v); err != nil {
			return err
		}
		snap.Schedules = v
	case config.SourceJobs:
		var v []types.Job
		if err := fetchJSON(ctx, s.client, s.url, &v); err != nil {
			return err
		}
		snap.RecentJobs = v
	case config.SourceUpcoming:
		var v []types.Execution
		if err := fetchJSON(ctx, s.client, s.url, &v); err != nil {
			return err
		}
		snap.UpcomingExecutions = v
	case config.SourceWorkerMetrics:
		mfs, err := fetchMetrics(ctx, s.client, s.url)
		if err != nil {
			return err
		}
		*worker = readWorker(mfs)
	default:
		return fmt.Errorf("unknown source %q", s.name)
	}
	return nil
}
