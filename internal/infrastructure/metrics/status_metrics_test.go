package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/status-service/internal/core/domain/health"
	"github.com/avatarctic/status-service/internal/infrastructure/metrics"
)

func TestStatusMetrics_ObserveReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewStatusMetrics(reg)
	require.NoError(t, err)

	m.ObserveReport(&health.ServiceStatus{
		Overall: health.StatusDegraded,
		Results: []health.ProbeResult{
			{Name: "db", Required: true, Healthy: true, Latency: 3 * time.Millisecond},
			{Name: "cache", Required: false, Healthy: false, Latency: 10 * time.Millisecond, Detail: "timeout"},
		},
	})
	m.ObserveReport(&health.ServiceStatus{Overall: health.StatusDegraded})

	series, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// two probe histograms, two probe gauges, one verdict counter
	assert.Equal(t, 5, series)

	expected := `
# HELP status_reports_total The total number of status reports by overall verdict
# TYPE status_reports_total counter
status_reports_total{overall="DEGRADED"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "status_reports_total"))

	expectedUp := `
# HELP status_probe_up Whether the last probe of a dependency succeeded (1) or failed (0)
# TYPE status_probe_up gauge
status_probe_up{probe="cache",required="false"} 0
status_probe_up{probe="db",required="true"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expectedUp), "status_probe_up"))
}

func TestNewStatusMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewStatusMetrics(reg)
	require.NoError(t, err)
	_, err = metrics.NewStatusMetrics(reg)
	assert.Error(t, err)
}
