package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/pipeline"
	"github.com/fortuna/augur/internal/scheduler"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db           *store.Database
	orchestrator *scheduler.Orchestrator
	cache        *cache.RedisCache
	teams        *repository.TeamRepository
	projections  *repository.ProjectionRepository
	edges        *repository.EdgeRepository
	results      *repository.ResultRepository
}

// NewHandler creates a new handler. The cache may be nil; edge reads
// then always hit the database.
func NewHandler(db *store.Database, orchestrator *scheduler.Orchestrator, redisCache *cache.RedisCache) *Handler {
	return &Handler{
		db:           db,
		orchestrator: orchestrator,
		cache:        redisCache,
		teams:        repository.NewTeamRepository(db),
		projections:  repository.NewProjectionRepository(db),
		edges:        repository.NewEdgeRepository(db),
		results:      repository.NewResultRepository(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "augur",
		"version": "1.0.0",
	})
}

// GetProjections returns the projection set for a run date
// (?date=YYYY-MM-DD, default: latest run)
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	runDate, ok := h.resolveDate(w, r, h.projections.LatestRunDate)
	if !ok {
		return
	}

	projections, err := h.projections.ListForDate(r.Context(), runDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch projections", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_date":    runDate.Format("2006-01-02"),
		"count":       len(projections),
		"projections": projections,
	})
}

// GetEdges returns the pick sheet for a run date, ordered by absolute
// edge descending (?date=YYYY-MM-DD, default: latest run). Dateless
// requests are served from the cached latest sheet when available.
func (h *Handler) GetEdges(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("date") == "" && h.cache != nil {
		if payload, err := h.cache.Get(r.Context(), cache.LatestEdgesKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(payload))
			return
		}
	}

	runDate, ok := h.resolveDate(w, r, h.edges.LatestRunDate)
	if !ok {
		return
	}

	edges, err := h.edges.ListForDate(r.Context(), runDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch edges", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_date": runDate.Format("2006-01-02"),
		"count":    len(edges),
		"edges":    edges,
	})
}

// GetResults returns graded records for a date (?date=YYYY-MM-DD)
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}

	gradedDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	records, err := h.results.ListForDate(r.Context(), gradedDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch results", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"graded_date": gradedDate.Format("2006-01-02"),
		"count":       len(records),
		"results":     records,
	})
}

// GetResultsSummary returns the all-time ledger summary
func (h *Handler) GetResultsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.results.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build summary", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetTeams returns all active teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// TriggerDataUpdate manually starts the data update stage
func (h *Handler) TriggerDataUpdate(w http.ResponseWriter, r *http.Request) {
	h.triggerRun(w, r, "data update", h.orchestrator.TriggerDataUpdate)
}

// TriggerEdgeRun manually starts the edge sheet stage
func (h *Handler) TriggerEdgeRun(w http.ResponseWriter, r *http.Request) {
	h.triggerRun(w, r, "edge run", h.orchestrator.TriggerEdgeRun)
}

// TriggerGrading manually starts the grading stage
func (h *Handler) TriggerGrading(w http.ResponseWriter, r *http.Request) {
	h.triggerRun(w, r, "grading", h.orchestrator.TriggerGrading)
}

// GetRunStatus returns the scheduler configuration
func (h *Handler) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orchestrator.GetStatus())
}

// triggerRun runs a pipeline stage inline. 409 means another run holds
// the lock; the caller can retry once it finishes.
func (h *Handler) triggerRun(w http.ResponseWriter, r *http.Request, name string, run func(ctx context.Context) error) {
	if err := run(r.Context()); err != nil {
		if pipeline.IsLocked(err) {
			respondError(w, http.StatusConflict, "Another run is in progress", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Run failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": name + " complete",
	})
}

// resolveDate parses ?date= or falls back to the latest run date.
func (h *Handler) resolveDate(w http.ResponseWriter, r *http.Request, latest func(ctx context.Context) (time.Time, error)) (time.Time, bool) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return time.Time{}, false
		}
		return date, true
	}

	date, err := latest(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "No runs recorded yet", err)
		return time.Time{}, false
	}
	return date, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
