package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/snapshot"
	"github.com/clinops/trialpulse/internal/summary"
	"github.com/clinops/trialpulse/pkg/logger"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// StudyIndex is the read side of the study index cache
type StudyIndex interface {
	Studies(ctx context.Context) []contracts.Study
	Refresh(ctx context.Context) ([]contracts.Study, error)
}

// StudyLoader loads one study outside of the dashboard session
type StudyLoader interface {
	Load(ctx context.Context, studyID string) (*contracts.StudyData, error)
}

// HistoryReader lists persisted load snapshots
type HistoryReader interface {
	History(ctx context.Context, studyID string, limit int) ([]snapshot.Snapshot, error)
}

// StudyHandler serves the study index and per-study data
type StudyHandler struct {
	index   StudyIndex
	loader  StudyLoader
	history HistoryReader
	logger  *logger.Logger
}

// NewStudyHandler creates a new study handler. history may be nil when no
// database is configured.
func NewStudyHandler(index StudyIndex, loader StudyLoader, history HistoryReader, log *logger.Logger) *StudyHandler {
	return &StudyHandler{
		index:   index,
		loader:  loader,
		history: history,
		logger:  log.Module("api.studies"),
	}
}

// ListStudies returns the study index
// GET /api/studies
func (h *StudyHandler) ListStudies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.index.Studies(r.Context()))
}

// ReloadIndex rereads the study index
// POST /api/studies/reload
func (h *StudyHandler) ReloadIndex(w http.ResponseWriter, r *http.Request) {
	studies, err := h.index.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload study index")
		respondError(w, http.StatusBadGateway, "Failed to reload study index")
		return
	}
	respondJSON(w, http.StatusOK, studies)
}

// GetStudy loads a study and returns its records and load report
// GET /api/studies/{id}
func (h *StudyHandler) GetStudy(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.loader.Load(r.Context(), id)
	if err != nil {
		respondLoadError(w, h.logger, id, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// GetStudySummary loads a study and returns the dashboard aggregates
// GET /api/studies/{id}/summary
func (h *StudyHandler) GetStudySummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.loader.Load(r.Context(), id)
	if err != nil {
		respondLoadError(w, h.logger, id, err)
		return
	}
	respondJSON(w, http.StatusOK, summary.Summarize(id, data))
}

// GetStudyHistory returns recent load snapshots, newest first
// GET /api/studies/{id}/history?limit=20
func (h *StudyHandler) GetStudyHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "Snapshot history is not configured")
		return
	}

	id := mux.Vars(r)["id"]
	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected a positive integer)")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	snapshots, err := h.history.History(r.Context(), id, limit)
	if err != nil {
		h.logger.WithError(err).WithField("study_id", id).Error("Failed to get snapshot history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve snapshot history")
		return
	}
	if snapshots == nil {
		snapshots = []snapshot.Snapshot{}
	}
	respondJSON(w, http.StatusOK, snapshots)
}
