package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Request collectors live on the default registry next to the status metrics,
// so one scrape of /metrics covers both.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests served by the status API",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving status API requests",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)
)

// logScrapeTarget announces where the collectors can be scraped.
func (s *Server) logScrapeTarget() {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"endpoint": "/metrics",
		"http":     "http_requests_total, http_request_duration_seconds",
		"status":   "status_probe_duration_seconds, status_probe_up, status_reports_total",
	}).Debug("prometheus scrape target ready")
}

func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
