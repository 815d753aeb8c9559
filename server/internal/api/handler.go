package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/propdash/propdash/pkg/types"
	"github.com/propdash/propdash/server/internal/compute"
	"github.com/propdash/propdash/server/internal/store"
	"github.com/propdash/propdash/server/internal/telemetry"
)

// maxBodyBytes bounds request bodies for evaluate and ingest.
const maxBodyBytes = 1 << 20

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads tenant snapshots from the store and evaluates them with the
// current engine on every request.
type Handler struct {
	store   *store.Store
	engine  atomic.Pointer[compute.Engine]
	metrics *telemetry.Metrics
	limiter atomic.Pointer[tenantLimiter]
	now     func() time.Time
	handler http.Handler
}

// New creates a Handler wired to the given store, engine and metrics and
// registers all routes. m may be nil.
func New(st *store.Store, eng *compute.Engine, m *telemetry.Metrics) *Handler {
	h := &Handler{store: st, metrics: m, now: time.Now}
	h.engine.Store(eng)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", h.health)
	mux.HandleFunc("/api/v1/evaluate", h.evaluate)
	mux.HandleFunc("/api/v1/tenants", h.listTenants)
	mux.HandleFunc("/api/v1/tenants/", h.tenant) // subtree: {id}/snapshot, {id}/dashboard

	h.handler = withRequestID(logRequests(mux))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// SetEngine replaces the engine used by subsequent requests. In-flight
// requests finish with the engine they started with.
func (h *Handler) SetEngine(eng *compute.Engine) {
	h.engine.Store(eng)
}

// Engine returns the engine currently serving requests.
func (h *Handler) Engine() *compute.Engine {
	return h.engine.Load()
}

// LimitIngest caps snapshot uploads at perMinute per tenant with the given
// burst. A non-positive rate removes the limit.
func (h *Handler) LimitIngest(perMinute float64, burst int) {
	if perMinute <= 0 {
		h.limiter.Store(nil)
		return
	}
	h.limiter.Store(newTenantLimiter(perMinute, burst))
}

// ForgetTenants drops per-tenant state for evicted tenants.
func (h *Handler) ForgetTenants(ids []string) {
	h.limiter.Load().forget(ids)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: service liveness and verdict counts
// across live tenants.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	eng := h.Engine()
	entries := h.store.List()
	resp := HealthResponse{Status: "ok", TenantCount: len(entries)}
	for _, e := range entries {
		switch eng.Consolidate(e.Snapshot).SystemStatus.Overall {
		case types.OverallHealthy:
			resp.HealthyCount++
		case types.OverallWarning:
			resp.WarningCount++
		case types.OverallCritical:
			resp.CriticalCount++
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// evaluate handles POST /api/v1/evaluate: one-shot evaluation of the posted
// snapshot. The optional "config" key overrides the engine config for this
// request only.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.run(&req.RawSnapshot, req.Config)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, toDashboardResponse(rep, wantCompact(r)))
}

// listTenants returns GET /api/v1/tenants: all live tenants with their
// current verdict and health score.
func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	eng := h.Engine()
	entries := h.store.List()
	out := make([]TenantResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, TenantResponse{
			TenantID:    e.TenantID,
			Overall:     eng.Consolidate(e.Snapshot).SystemStatus.Overall,
			HealthScore: compute.ScoreHealth(e.Snapshot),
			LastSeen:    e.UpdatedAt.UTC(),
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// tenant dispatches /api/v1/tenants/{id}/{action}.
func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tenants/")
	if rest == "" {
		// Bare /api/v1/tenants/ behaves like the list endpoint.
		h.listTenants(w, r)
		return
	}

	id, action, ok := strings.Cut(rest, "/")
	if !ok || id == "" || strings.Contains(action, "/") {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "snapshot":
		h.ingest(w, r, id)
	case "dashboard":
		h.dashboard(w, r, id)
	default:
		jsonErr(w, http.StatusNotFound, "not found")
	}
}

// ingest handles PUT /api/v1/tenants/{id}/snapshot: replaces the tenant's
// latest snapshot. This is the agent's delivery target.
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if ok, wait := h.limiter.Load().allow(id, h.now()); !ok {
		slog.Warn("api: ingest rate limited", "tenant", id, "retry_in", wait, "request_id", requestID(r))
		w.Header().Set("Retry-After", retryAfterSeconds(wait))
		jsonErr(w, http.StatusTooManyRequests, "ingest rate limit exceeded")
		return
	}

	var snap types.RawSnapshot
	if err := decodeBody(w, r, &snap); err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.Put(id, &snap)
	h.metrics.SnapshotIngested()
	h.metrics.SetHealthScore(id, compute.ScoreHealth(&snap).Score)
	slog.Debug("api: snapshot ingested", "tenant", id, "request_id", requestID(r))

	jsonResp(w, http.StatusAccepted, IngestResponse{TenantID: id, ReceivedAt: h.now().UTC()})
}

// dashboard returns GET /api/v1/tenants/{id}/dashboard: the evaluated
// dashboard for the tenant's latest live snapshot; 404 if unknown or stale.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	e, ok := h.store.GetLive(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "tenant not found")
		return
	}

	rep, err := h.run(e.Snapshot, nil)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.SetHealthScore(id, rep.Derived.OverallHealth.Score)

	resp := toDashboardResponse(rep, wantCompact(r))
	resp.TenantID = id
	seen := e.UpdatedAt.UTC()
	resp.LastSeen = &seen
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

// run evaluates snap with the current engine and records telemetry.
func (h *Handler) run(snap *types.RawSnapshot, o *compute.Overrides) (compute.Report, error) {
	start := time.Now()
	rep, err := h.Engine().Evaluate(snap, o)
	if err != nil {
		return compute.Report{}, err
	}
	h.metrics.ObserveEvaluation(string(rep.SystemStatus.Overall), time.Since(start))
	return rep, nil
}

// decodeBody decodes a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("request body exceeds %d bytes", tooBig.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func wantCompact(r *http.Request) bool {
	switch r.URL.Query().Get("compact") {
	case "1", "true":
		return true
	default:
		return false
	}
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
