package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.IncCueFired("Commercial")
	m.IncCueFired("Commercial")
	m.IncHandoff("interstitial")
	m.IncIllegalRequest("primary", "pause")
	m.IncDriverError("primary")
	m.IncStreamCompleted("interstitial")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cuesFired.WithLabelValues("Commercial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handoffs.WithLabelValues("interstitial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.illegalRequests.WithLabelValues("primary", "pause")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.driverErrors.WithLabelValues("primary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.streamsCompleted.WithLabelValues("interstitial")))
}

func TestSetActiveIsExclusive(t *testing.T) {
	m := New()
	m.SetActive("interstitial", "primary", "interstitial")
	m.SetActive("primary", "primary", "interstitial")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeSession.WithLabelValues("primary")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeSession.WithLabelValues("interstitial")))
}

func TestRouterServesMetrics(t *testing.T) {
	m := New()
	m.IncHandoff("primary")
	srv := httptest.NewServer(NewRouter(m))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `couchbreak_handoffs_total{to="primary"} 1`))

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
