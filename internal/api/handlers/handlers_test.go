package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/mockdata"
	"github.com/clinops/trialpulse/internal/scheduler"
	"github.com/clinops/trialpulse/internal/snapshot"
	"github.com/clinops/trialpulse/pkg/logger"
)

type fakeHistory struct {
	gotLimit int
	err      error
}

func (f *fakeHistory) History(_ context.Context, studyID string, limit int) ([]snapshot.Snapshot, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []snapshot.Snapshot{{StudyID: studyID}}, nil
}

func serveWithVars(h http.HandlerFunc, req *http.Request, vars map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, mux.SetURLVars(req, vars))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGetStudyHistory_Limit(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"default", "", http.StatusOK, defaultHistoryLimit},
		{"explicit", "?limit=5", http.StatusOK, 5},
		{"capped", "?limit=5000", http.StatusOK, maxHistoryLimit},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"garbage", "?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &fakeHistory{}
			h := NewStudyHandler(nil, nil, history, logger.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/studies/study-1/history"+tt.query, nil)
			rec := serveWithVars(h.GetStudyHistory, req, map[string]string{"id": "study-1"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLimit, history.gotLimit)
		})
	}
}

func TestGetStudyHistory_NotConfigured(t *testing.T) {
	h := NewStudyHandler(nil, nil, nil, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/studies/study-1/history", nil)
	rec := serveWithVars(h.GetStudyHistory, req, map[string]string{"id": "study-1"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetStudyHistory_Error(t *testing.T) {
	h := NewStudyHandler(nil, nil, &fakeHistory{err: errors.New("db down")}, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/studies/study-1/history", nil)
	rec := serveWithVars(h.GetStudyHistory, req, map[string]string{"id": "study-1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to retrieve snapshot history", decodeError(t, rec))
}

func TestRespondLoadError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("%q: %w", "x", contracts.ErrStudyNotFound), http.StatusNotFound},
		{"superseded", contracts.ErrSuperseded, http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondLoadError(rec, logger.Nop(), "x", tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

type fakeSession struct {
	selected []string
	err      error
}

func (f *fakeSession) Select(_ context.Context, id string) (*contracts.StudyData, error) {
	f.selected = append(f.selected, id)
	if f.err != nil {
		return nil, f.err
	}
	return &contracts.StudyData{Report: &contracts.LoadReport{StudyID: id, Generation: 7}}, nil
}

func (f *fakeSession) Current() (string, *contracts.StudyData) {
	return mockdata.StudyID, mockdata.Study()
}

func (f *fakeSession) Generation() uint64 { return 0 }

func TestSessionSelect(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCalls  int
	}{
		{"ok", `{"studyId":"study-1"}`, nil, http.StatusOK, 1},
		{"trimmed", `{"studyId":"  study-1 "}`, nil, http.StatusOK, 1},
		{"missing id", `{}`, nil, http.StatusBadRequest, 0},
		{"bad json", `{`, nil, http.StatusBadRequest, 0},
		{"superseded", `{"studyId":"study-1"}`, contracts.ErrSuperseded, http.StatusConflict, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{err: tt.err}
			h := NewSessionHandler(session, logger.Nop())

			rec := httptest.NewRecorder()
			h.Select(rec, httptest.NewRequest(http.MethodPost, "/api/session/select", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Len(t, session.selected, tt.wantCalls)
			if tt.wantStatus == http.StatusOK {
				var resp SessionResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "study-1", resp.StudyID)
				assert.Equal(t, uint64(7), resp.Generation)
			}
		})
	}
}

func TestSessionSummary(t *testing.T) {
	h := NewSessionHandler(&fakeSession{}, logger.Nop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/api/session/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, mockdata.StudyID, resp.StudyID)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 10, resp.Summary.Overview.TotalSites)
	assert.Nil(t, resp.Data)
}

type fakeJobs struct{}

func (fakeJobs) GetJobStats() map[string]scheduler.JobStats {
	return map[string]scheduler.JobStats{"index_refresh": {JobName: "index_refresh", Schedule: "@hourly"}}
}

func (fakeJobs) RunJob(name string) error {
	if name != "index_refresh" {
		return errors.New("job not found")
	}
	return nil
}

func TestSchedulerHandler(t *testing.T) {
	h := NewSchedulerHandler(fakeJobs{}, logger.Nop())

	rec := httptest.NewRecorder()
	h.ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"schedule":"@hourly"`)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduler/jobs/index_refresh/run", nil)
	rec = serveWithVars(h.RunJob, req, map[string]string{"name": "index_refresh"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/scheduler/jobs/nope/run", nil)
	rec = serveWithVars(h.RunJob, req, map[string]string{"name": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchedulerHandler_NoScheduler(t *testing.T) {
	h := NewSchedulerHandler(nil, logger.Nop())

	rec := httptest.NewRecorder()
	h.ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/scheduler/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}
