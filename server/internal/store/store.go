package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/propdash/propdash/pkg/types"
)

// Entry is a tenant's latest snapshot together with the time it was received.
type Entry struct {
	TenantID  string
	Snapshot  *types.RawSnapshot
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory snapshot store, keyed by tenant ID.
// A background goroutine (Run) periodically evicts entries that have not
// been updated within the configured TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores or replaces the snapshot for tenantID.
// Callers must not modify snap after calling Put.
func (s *Store) Put(tenantID string, snap *types.RawSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tenantID] = &Entry{
		TenantID:  tenantID,
		Snapshot:  snap,
		UpdatedAt: s.now(),
	}
}

// Get returns the Entry for tenantID and a boolean indicating whether an
// entry was found. The entry may be stale if TTL has elapsed.
func (s *Store) Get(tenantID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[tenantID]
	return e, ok
}

// GetLive is Get restricted to entries updated within the TTL.
func (s *Store) GetLive(tenantID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[tenantID]
	if !ok || !s.live(e, s.now()) {
		return nil, false
	}
	return e, true
}

// List returns all entries whose UpdatedAt is within the TTL, sorted by
// tenant ID. Stale entries that have not yet been evicted are excluded.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		if s.live(e, now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantID < out[j].TenantID })
	return out
}

// Count returns the total number of entries currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the IDs of the tenants removed.
func (s *Store) Evict(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for id, e := range s.data {
		if !s.live(e, now) {
			delete(s.data, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// live reports whether e was updated within the TTL before now.
// A zero TTL disables expiry.
func (s *Store) live(e *Entry, now time.Time) bool {
	if s.ttl <= 0 {
		return true
	}
	return e.UpdatedAt.After(now.Add(-s.ttl))
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) and calls onEvict, if non-nil, with the IDs
// of evicted tenants. Run blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context, onEvict func(tenantIDs []string)) {
	if s.ttl <= 0 {
		<-ctx.Done()
		return
	}
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			removed := s.Evict(now)
			if len(removed) == 0 {
				continue
			}
			slog.Debug("store: evicted stale snapshots", "count", len(removed))
			if onEvict != nil {
				onEvict(removed)
			}
		}
	}
}
