package commands

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/elmbuild/internal/metrics"
)

func TestMetricsMux(t *testing.T) {
	reg := metrics.NewRegistry()
	metrics.NewPrometheusRecorder(reg).IncBuildOutcome(metrics.BuildOutcomeSuccess)
	mux := metricsMux(reg)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "elmbuild_build_outcomes_total")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
