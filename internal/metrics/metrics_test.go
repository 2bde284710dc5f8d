package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveLoad(LoadOK, 120*time.Millisecond)
	m.ObserveLoad(LoadOK, 80*time.Millisecond)
	m.ObserveLoad(LoadSuperseded, time.Second)
	m.AddRows("sites", 12)
	m.AddRows("sites", 0)
	m.ObserveResolution("sae", "ambiguous")
	m.ObserveIndexReload(false)
	m.SetWSClients(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.studyLoads.WithLabelValues(LoadOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.studyLoads.WithLabelValues(LoadSuperseded)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.rowsNormalized.WithLabelValues("sites")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fileResolutions.WithLabelValues("sae", "ambiguous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexReloads.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.wsClients))

	var pb dto.Metric
	require.NoError(t, m.loadDuration.Write(&pb))
	assert.Equal(t, uint64(2), pb.GetHistogram().GetSampleCount(), "only successful loads are timed")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/studies", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `trialpulse_http_requests_total{method="GET",route="/api/studies",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveLoad(LoadOK, time.Second)
	m.AddRows("sites", 1)
	m.ObserveResolution("sites", "resolved")
	m.ObserveIndexReload(true)
	m.SetWSClients(1)
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
