package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/scheduler"
	"github.com/fortuna/augur/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, orchestrator *scheduler.Orchestrator, redisCache *cache.RedisCache) *Server {
	handler := NewHandler(db, orchestrator, redisCache)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Projections
	api.HandleFunc("/projections", handler.GetProjections).Methods("GET")

	// Edge sheets
	api.HandleFunc("/edges", handler.GetEdges).Methods("GET")

	// Results ledger
	api.HandleFunc("/results", handler.GetResults).Methods("GET")
	api.HandleFunc("/results/summary", handler.GetResultsSummary).Methods("GET")

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")

	// Manual run triggers
	api.HandleFunc("/runs/data-update", handler.TriggerDataUpdate).Methods("POST")
	api.HandleFunc("/runs/edges", handler.TriggerEdgeRun).Methods("POST")
	api.HandleFunc("/runs/grade", handler.TriggerGrading).Methods("POST")
	api.HandleFunc("/runs/status", handler.GetRunStatus).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
