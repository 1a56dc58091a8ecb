package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/pulsecheck/pulsecheck/internal/aggregate"
	"github.com/pulsecheck/pulsecheck/internal/dataset"
	"github.com/pulsecheck/pulsecheck/internal/schema"
	"github.com/pulsecheck/pulsecheck/internal/telemetry"
	"github.com/pulsecheck/pulsecheck/internal/ws"
)

// Handler serves the /api/v1/* endpoints. It also keeps the query counters
// the WebSocket stats stream broadcasts.
type Handler struct {
	src    *dataset.Source
	router chi.Router

	mu          sync.Mutex
	queries     uint64
	regionCount uint64
	lastQuery   time.Time
	now         func() time.Time
}

// New creates a Handler wired to the given dataset source and registers all
// routes. CORS is configured from allowedOrigins; the service backs a browser
// dashboard, so OPTIONS preflights must succeed.
func New(src *dataset.Source, m *telemetry.Metrics, allowedOrigins []string) *Handler {
	h := &Handler{src: src, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(m.Middleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/latency", h.latency)
		r.Get("/health", h.health)
		r.Get("/dataset", h.datasetInfo)
	})

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Stats snapshots the query counters for the WebSocket stream.
func (h *Handler) Stats() ws.Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := ws.Stats{
		DatasetLoaded:       h.src.Loaded(),
		QueriesTotal:        h.queries,
		RegionsQueriedTotal: h.regionCount,
	}
	if tbl, err := h.src.Table(); err == nil {
		s.Rows = tbl.NumRows()
	}
	if !h.lastQuery.IsZero() {
		s.LastQueryAt = h.lastQuery.UTC().Format(time.RFC3339)
	}
	return s
}

// --- route handlers ---------------------------------------------------------

// latency answers POST /api/v1/latency: per-region aggregates for the
// requested regions and threshold.
func (h *Handler) latency(w http.ResponseWriter, r *http.Request) {
	var req LatencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Regions) == 0 {
		jsonErr(w, http.StatusBadRequest, "regions is required and must not be empty")
		return
	}
	if req.ThresholdMS == nil {
		jsonErr(w, http.StatusBadRequest, "threshold_ms is required")
		return
	}

	tbl, err := h.src.Table()
	if err != nil {
		jsonErr(w, http.StatusInternalServerError,
			fmt.Sprintf("telemetry dataset not loaded: %v", err))
		return
	}

	cols, err := schema.Detect(tbl.Columns())
	if err != nil {
		// The request is fine; the dataset doesn't match expectations.
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	queryID := uuid.NewString()
	out := aggregate.Aggregate(tbl, cols, req.Regions, *req.ThresholdMS)
	h.recordQuery(len(req.Regions))

	slog.Debug("latency query served",
		"query_id", queryID,
		"regions", len(req.Regions),
		"threshold_ms", *req.ThresholdMS,
		"latency_col", cols.Latency,
		"region_col", cols.Region,
		"uptime_col", cols.Uptime,
	)

	w.Header().Set("X-Query-Id", queryID)
	jsonResp(w, http.StatusOK, out)
}

// health answers GET /api/v1/health with the dataset load state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	tbl, err := h.src.Table()
	if err != nil {
		jsonResp(w, http.StatusOK, HealthResponse{
			Status: "degraded",
			Error:  err.Error(),
		})
		return
	}

	jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		DatasetLoaded: true,
		Rows:          tbl.NumRows(),
		Columns:       len(tbl.Columns()),
	})
}

// datasetInfo answers GET /api/v1/dataset with schema introspection: the raw
// column names plus the per-role resolution outcome. Roles are resolved
// independently here so a partially recognizable schema still reports what it
// can.
func (h *Handler) datasetInfo(w http.ResponseWriter, r *http.Request) {
	tbl, err := h.src.Table()
	if err != nil {
		jsonErr(w, http.StatusInternalServerError,
			fmt.Sprintf("telemetry dataset not loaded: %v", err))
		return
	}

	cols := tbl.Columns()
	var roles RolesResponse
	if c, ok := schema.Resolve(cols, schema.Candidates(schema.RoleLatency)); ok {
		roles.Latency = c
	}
	if c, ok := schema.Resolve(cols, schema.Candidates(schema.RoleRegion)); ok {
		roles.Region = c
	}
	if c, ok := schema.Resolve(cols, schema.Candidates(schema.RoleUptime)); ok {
		roles.Uptime = c
	}

	jsonResp(w, http.StatusOK, DatasetResponse{
		Columns: cols,
		Rows:    tbl.NumRows(),
		Roles:   roles,
	})
}

// recordQuery bumps the stats counters after a successful aggregation.
func (h *Handler) recordQuery(regions int) {
	h.mu.Lock()
	h.queries++
	h.regionCount += uint64(regions)
	h.lastQuery = h.now()
	h.mu.Unlock()
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
