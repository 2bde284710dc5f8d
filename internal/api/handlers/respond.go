package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondLoadError maps loader and session errors onto status codes
func respondLoadError(w http.ResponseWriter, log *logger.Logger, studyID string, err error) {
	switch {
	case errors.Is(err, contracts.ErrStudyNotFound):
		respondError(w, http.StatusNotFound, "Study not found: "+studyID)
	case errors.Is(err, contracts.ErrSuperseded):
		respondError(w, http.StatusConflict, "Selection superseded by a newer request")
	default:
		log.WithError(err).WithField("study_id", studyID).Error("Study load failed")
		respondError(w, http.StatusInternalServerError, "Failed to load study")
	}
}
