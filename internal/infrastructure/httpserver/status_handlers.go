package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

// statusResponse is the rendered shape of a ServiceStatus.
type statusResponse struct {
	ID          uuid.UUID            `json:"id"`
	Service     string               `json:"service"`
	Version     string               `json:"version"`
	Overall     health.OverallStatus `json:"overall"`
	GeneratedAt string               `json:"generatedAt"`
	Results     []health.ProbeResult `json:"results"`
}

// statusCode maps the overall verdict onto the HTTP status code.
// Degradation is reported in the body, not through the code.
func statusCode(overall health.OverallStatus) int {
	if overall == health.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Status handler: probes every registered dependency.
func (s *Server) statusReport(c echo.Context) error {
	status := s.statusSvc.Report(c.Request().Context())

	results := status.Results
	if results == nil {
		results = []health.ProbeResult{}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(statusCode(status.Overall), statusResponse{
		ID:          status.ID,
		Service:     s.config.ServiceName,
		Version:     s.config.Version,
		Overall:     status.Overall,
		GeneratedAt: status.GeneratedAt.UTC().Format(time.RFC3339Nano),
		Results:     results,
	})
}

// Liveness handler: never touches dependencies.
func (s *Server) liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
