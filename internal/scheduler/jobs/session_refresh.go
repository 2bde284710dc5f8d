package jobs

import (
	"context"
	"errors"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/mockdata"
	"github.com/clinops/trialpulse/pkg/logger"
)

// SessionRefresher is the part of *loader.Session this job drives
type SessionRefresher interface {
	Current() (string, *contracts.StudyData)
	Refresh(ctx context.Context) (*contracts.StudyData, error)
}

// SessionRefreshJob reloads the selected study so edits to its files reach
// the dashboard. The demo study is never reloaded.
type SessionRefreshJob struct {
	session  SessionRefresher
	schedule string
	logger   *logger.Logger
}

// NewSessionRefreshJob creates a new session refresh job
func NewSessionRefreshJob(session SessionRefresher, schedule string, log *logger.Logger) *SessionRefreshJob {
	return &SessionRefreshJob{
		session:  session,
		schedule: schedule,
		logger:   log.Module("session_refresh"),
	}
}

func (j *SessionRefreshJob) Name() string {
	return "session_refresh"
}

func (j *SessionRefreshJob) Schedule() string {
	return j.schedule
}

// Run reloads the current study. Yielding to a user selection is not a
// failure.
func (j *SessionRefreshJob) Run(ctx context.Context) error {
	id, _ := j.session.Current()
	if id == "" || id == mockdata.StudyID {
		return nil
	}

	_, err := j.session.Refresh(ctx)
	switch {
	case err == nil:
		j.logger.WithField("study_id", id).Info("Selected study reloaded")
		return nil
	case errors.Is(err, contracts.ErrSuperseded):
		j.logger.WithField("study_id", id).Debug("Reload skipped, a selection is in progress")
		return nil
	default:
		return err
	}
}
