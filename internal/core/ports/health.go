package ports

import (
	"context"
	"time"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

// Probe abstracts a single bounded liveness check against one dependency.
// Implementations never return an error: every failure mode is folded into an
// unhealthy ProbeResult, and a cancelled or expired ctx must make Check return promptly.
type Probe interface {
	Check(ctx context.Context) health.ProbeResult
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context) health.ProbeResult

func (f ProbeFunc) Check(ctx context.Context) health.ProbeResult { return f(ctx) }

// ProbeRegistration binds a Probe to its registry metadata.
type ProbeRegistration struct {
	Name string
	// Required probes fail the whole service when unhealthy.
	Required bool
	// Timeout overrides the overall deadline for this probe when > 0. It is capped at the overall deadline.
	Timeout time.Duration
	Probe   Probe
}

// StatusService computes the current service status on demand.
// Implementations MUST be safe for concurrent use and never cache results.
type StatusService interface {
	Report(ctx context.Context) *health.ServiceStatus
}

// StatusRecorder receives the structured signals emitted for every report.
type StatusRecorder interface {
	ObserveReport(status *health.ServiceStatus)
}
