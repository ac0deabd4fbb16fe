package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

// StatusMetrics implements ports.StatusRecorder with Prometheus collectors.
type StatusMetrics struct {
	probeDuration *prometheus.HistogramVec
	probeUp       *prometheus.GaugeVec
	reportsTotal  *prometheus.CounterVec
}

// NewStatusMetrics creates the collectors and registers them with reg.
func NewStatusMetrics(reg prometheus.Registerer) (*StatusMetrics, error) {
	m := &StatusMetrics{
		probeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "status_probe_duration_seconds",
				Help:    "Latency of dependency probes in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"probe"},
		),
		probeUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "status_probe_up",
				Help: "Whether the last probe of a dependency succeeded (1) or failed (0)",
			},
			[]string{"probe", "required"},
		),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "status_reports_total",
				Help: "The total number of status reports by overall verdict",
			},
			[]string{"overall"},
		),
	}
	for _, c := range []prometheus.Collector{m.probeDuration, m.probeUp, m.reportsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveReport records every probe result and the overall verdict.
func (m *StatusMetrics) ObserveReport(status *health.ServiceStatus) {
	for _, r := range status.Results {
		m.probeDuration.WithLabelValues(r.Name).Observe(r.Latency.Seconds())
		up := 0.0
		if r.Healthy {
			up = 1
		}
		m.probeUp.WithLabelValues(r.Name, strconv.FormatBool(r.Required)).Set(up)
	}
	m.reportsTotal.WithLabelValues(string(status.Overall)).Inc()
}
