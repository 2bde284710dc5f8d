package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/summary"
	"github.com/clinops/trialpulse/pkg/logger"
)

// DashboardSession is the selected-study state shared by all dashboard clients
type DashboardSession interface {
	Select(ctx context.Context, studyID string) (*contracts.StudyData, error)
	Current() (string, *contracts.StudyData)
	Generation() uint64
}

// SessionHandler drives study selection
type SessionHandler struct {
	session DashboardSession
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session DashboardSession, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  log.Module("api.session"),
	}
}

// SelectRequest represents a study selection
type SelectRequest struct {
	StudyID string `json:"studyId"`
}

// SessionResponse is the currently installed study
type SessionResponse struct {
	StudyID    string                  `json:"studyId"`
	Generation uint64                  `json:"generation"`
	Data       *contracts.StudyData    `json:"data,omitempty"`
	Summary    *contracts.StudySummary `json:"summary,omitempty"`
}

// Select loads a study and installs it unless a newer selection wins
// POST /api/session/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.StudyID = strings.TrimSpace(req.StudyID)
	if req.StudyID == "" {
		respondError(w, http.StatusBadRequest, "studyId is required")
		return
	}

	data, err := h.session.Select(r.Context(), req.StudyID)
	if err != nil {
		respondLoadError(w, h.logger, req.StudyID, err)
		return
	}

	var generation uint64
	if data.Report != nil {
		generation = data.Report.Generation
	}

	respondJSON(w, http.StatusOK, SessionResponse{
		StudyID:    req.StudyID,
		Generation: generation,
		Data:       data,
	})
}

// GetCurrent returns the installed study and its records
// GET /api/session/current
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	id, data := h.session.Current()
	respondJSON(w, http.StatusOK, SessionResponse{
		StudyID:    id,
		Generation: h.session.Generation(),
		Data:       data,
	})
}

// GetSummary returns the dashboard aggregates of the installed study
// GET /api/session/summary
func (h *SessionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, data := h.session.Current()
	s := summary.Summarize(id, data)
	respondJSON(w, http.StatusOK, SessionResponse{
		StudyID:    id,
		Generation: h.session.Generation(),
		Summary:    &s,
	})
}
