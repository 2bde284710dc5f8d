package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinops/trialpulse/internal/api/handlers"
	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/loader"
	"github.com/clinops/trialpulse/internal/metrics"
	"github.com/clinops/trialpulse/internal/mockdata"
	"github.com/clinops/trialpulse/internal/realtime"
	"github.com/clinops/trialpulse/internal/source"
	"github.com/clinops/trialpulse/internal/studyindex"
	"github.com/clinops/trialpulse/pkg/config"
	"github.com/clinops/trialpulse/pkg/logger"
)

var testConfig = config.Config{Port: "0", Env: "development"}

const indexJSON = `[
  {"id": "study-1", "name": "STUDY 1", "folder": "Study 1", "files": ["Study 1_EDC_Metrics.csv"]}
]`

const sitesCSV = "Site ID,Site Name,Country,Open Queries,Clean CRF %\n" +
	"S-101,Mumbai Research Hospital,India,21,72\n" +
	"S-102,Boston Medical Center,USA,0,88\n"

type testServer struct {
	*httptest.Server
	metrics *metrics.Metrics
	hub     *realtime.Hub
	session *loader.Session
}

func writeDataset(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "study-index.json"), []byte(indexJSON), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Study 1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Study 1", "Study 1_EDC_Metrics.csv"), []byte(sitesCSV), 0o644))
	return root
}

func newTestServer(t *testing.T, limit RateLimit) *testServer {
	t.Helper()
	log := logger.Nop()
	m := metrics.New()

	src := source.NewFS(writeDataset(t), "study-index.json")
	index := studyindex.New(src, log)
	l := loader.New(loader.Deps{Index: index, Source: src, Metrics: m}, log)
	hub := realtime.NewHub(log, m)
	session := loader.NewSession(l, hub, m, log)

	router := NewRouter(Handlers{
		Studies:   handlers.NewStudyHandler(index, l, nil, log),
		Session:   handlers.NewSessionHandler(session, log),
		Scheduler: handlers.NewSchedulerHandler(nil, log),
		Realtime:  hub,
		Metrics:   m,
	}, limit, log)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &testServer{Server: srv, metrics: m, hub: hub, session: session}
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	resp := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestStudies(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	resp := s.do(t, http.MethodGet, "/api/studies", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	studies := decode[[]contracts.Study](t, resp)
	require.Len(t, studies, 1)
	assert.Equal(t, "Study 1", studies[0].Folder)

	resp = s.do(t, http.MethodPost, "/api/studies/reload", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetStudy(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	resp := s.do(t, http.MethodGet, "/api/studies/study-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decode[contracts.StudyData](t, resp)
	assert.Len(t, data.Sites, 2)
	assert.Empty(t, data.Queries)
	require.NotNil(t, data.Report)
	visits, ok := data.Report.File(contracts.RoleVisits)
	require.True(t, ok)
	assert.Equal(t, contracts.OutcomeNotFound, visits.Outcome)

	resp = s.do(t, http.MethodGet, "/api/studies/study-1/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[contracts.StudySummary](t, resp)
	assert.Equal(t, 2, sum.Overview.TotalSites)

	resp = s.do(t, http.MethodGet, "/api/studies/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/studies/study-1/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	resp := s.do(t, http.MethodGet, "/api/session/current", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	current := decode[handlers.SessionResponse](t, resp)
	assert.Equal(t, mockdata.StudyID, current.StudyID)
	require.NotNil(t, current.Data)
	assert.Len(t, current.Data.Sites, 10)

	resp = s.do(t, http.MethodPost, "/api/session/select", `{"studyId":"study-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	selected := decode[handlers.SessionResponse](t, resp)
	assert.Equal(t, uint64(1), selected.Generation)

	resp = s.do(t, http.MethodGet, "/api/session/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[handlers.SessionResponse](t, resp)
	assert.Equal(t, "study-1", sum.StudyID)
	require.NotNil(t, sum.Summary)
	assert.Equal(t, 2, sum.Summary.Overview.TotalSites)

	resp = s.do(t, http.MethodPost, "/api/session/select", `{"studyId":"study-404"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id, _ := s.session.Current()
	assert.Equal(t, "study-1", id)
}

func TestSchedulerJobs_Empty(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	resp := s.do(t, http.MethodGet, "/api/scheduler/jobs", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRouteLabels(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	s.do(t, http.MethodGet, "/api/studies/nope", "")
	s.do(t, http.MethodGet, "/api/studies/other", "")

	expected := `
# HELP trialpulse_http_requests_total API requests by route and status.
# TYPE trialpulse_http_requests_total counter
trialpulse_http_requests_total{method="GET",route="/api/studies/{id}",status="404"} 2
`
	assert.Eventually(t, func() bool {
		err := testutil.GatherAndCompare(s.metrics.Registry(), strings.NewReader(expected), "trialpulse_http_requests_total")
		return err == nil
	}, time.Second, 10*time.Millisecond)

	resp := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, RateLimit{RPS: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/studies", "").StatusCode)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/studies", "").StatusCode)

	resp := s.do(t, http.MethodGet, "/api/studies", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").StatusCode)
}

func TestWebsocketReceivesSelection(t *testing.T) {
	s := newTestServer(t, RateLimit{})

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	resp := s.do(t, http.MethodPost, "/api/session/select", `{"studyId":"study-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, realtime.EventStudyLoaded, ev.Type)
	assert.Equal(t, "study-1", ev.StudyID)
}

func TestRecovery(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestServerShutdown(t *testing.T) {
	srv := New(&testConfig, logger.Nop(), http.NotFoundHandler())
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
