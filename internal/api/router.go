package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinops/trialpulse/internal/api/handlers"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/pkg/logger"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Studies   *handlers.StudyHandler
	Session   *handlers.SessionHandler
	Scheduler *handlers.SchedulerHandler

	// Realtime is the websocket endpoint; nil leaves /ws unmounted
	Realtime http.Handler
	Metrics  *metrics.Metrics
}

// RateLimit caps /api requests per second; RPS <= 0 disables it
type RateLimit struct {
	RPS   float64
	Burst int
}

// NewRouter creates and configures the HTTP router
func NewRouter(h Handlers, limit RateLimit, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", h.Metrics.Handler()).Methods("GET")
	if h.Realtime != nil {
		r.Handle("/ws", h.Realtime).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(limit, log))

	// Study endpoints
	api.HandleFunc("/studies", h.Studies.ListStudies).Methods("GET")
	api.HandleFunc("/studies/reload", h.Studies.ReloadIndex).Methods("POST")
	api.HandleFunc("/studies/{id}", h.Studies.GetStudy).Methods("GET")
	api.HandleFunc("/studies/{id}/summary", h.Studies.GetStudySummary).Methods("GET")
	api.HandleFunc("/studies/{id}/history", h.Studies.GetStudyHistory).Methods("GET")

	// Dashboard session
	api.HandleFunc("/session/select", h.Session.Select).Methods("POST")
	api.HandleFunc("/session/current", h.Session.GetCurrent).Methods("GET")
	api.HandleFunc("/session/summary", h.Session.GetSummary).Methods("GET")

	// Background jobs
	api.HandleFunc("/scheduler/jobs", h.Scheduler.ListJobs).Methods("GET")
	api.HandleFunc("/scheduler/jobs/{name}/run", h.Scheduler.RunJob).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log, h.Metrics))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "trialpulse-api",
	})
}
