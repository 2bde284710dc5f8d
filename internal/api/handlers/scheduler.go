package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinops/trialpulse/internal/scheduler"
	"github.com/clinops/trialpulse/pkg/logger"
)

// JobRunner is the part of *scheduler.Scheduler exposed over HTTP
type JobRunner interface {
	GetJobStats() map[string]scheduler.JobStats
	RunJob(jobName string) error
}

// SchedulerHandler exposes background job state
type SchedulerHandler struct {
	scheduler JobRunner
	logger    *logger.Logger
}

// NewSchedulerHandler creates a new scheduler handler; s may be nil when
// the API runs without background jobs
func NewSchedulerHandler(s JobRunner, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: s,
		logger:    log.Module("api.scheduler"),
	}
}

// ListJobs returns statistics per job
// GET /api/scheduler/jobs
func (h *SchedulerHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondJSON(w, http.StatusOK, map[string]scheduler.JobStats{})
		return
	}
	respondJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}

// RunJob triggers a job outside its schedule
// POST /api/scheduler/jobs/{name}/run
func (h *SchedulerHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if h.scheduler == nil {
		respondError(w, http.StatusNotFound, "Job not found: "+name)
		return
	}

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, "Job not found: "+name)
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "triggered",
		"job":    name,
	})
}
