package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/status-service/internal/core/domain/health"
	"github.com/avatarctic/status-service/internal/core/ports"
)

// AggregatorConfig groups the timing parameters of a status aggregation.
type AggregatorConfig struct {
	// OverallDeadline is the hard ceiling on the wall time of one run.
	OverallDeadline time.Duration
	// GracePeriod is how long a probe may take to unwind after its context expired.
	GracePeriod time.Duration
	// SlowThreshold marks healthy probes slower than this as slow. Zero disables it.
	SlowThreshold time.Duration
}

// Aggregator runs probe registrations concurrently under a shared deadline and
// reduces their results into one ServiceStatus. It holds no per-call state.
type Aggregator struct {
	overallDeadline time.Duration
	grace           time.Duration
	slowThreshold   time.Duration
	logger          *logrus.Logger
}

func NewAggregator(cfg *AggregatorConfig, logger *logrus.Logger) *Aggregator {
	// Apply defaults; an explicit zero grace period is kept
	od := 2 * time.Second
	g := 50 * time.Millisecond
	var st time.Duration
	if cfg != nil {
		if cfg.OverallDeadline > 0 {
			od = cfg.OverallDeadline
		}
		g = max(cfg.GracePeriod, 0)
		if cfg.SlowThreshold > 0 {
			st = cfg.SlowThreshold
		}
	}
	return &Aggregator{overallDeadline: od, grace: g, slowThreshold: st, logger: logger}
}

// Run probes every registration and returns the reduced status. It never fails:
// probe failures, hangs and panics are recorded as unhealthy results.
func (a *Aggregator) Run(ctx context.Context, regs []ports.ProbeRegistration) *health.ServiceStatus {
	status := &health.ServiceStatus{ID: uuid.New(), Results: make([]health.ProbeResult, len(regs))}
	if len(regs) == 0 {
		status.Overall = health.StatusHealthy
		status.GeneratedAt = time.Now().UTC()
		return status
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, a.overallDeadline)
	defer cancel()

	type slot struct {
		index  int
		result health.ProbeResult
	}
	// buffered so late probes never block after the join gave up on them
	done := make(chan slot, len(regs))
	for i, reg := range regs {
		go func(i int, reg ports.ProbeRegistration) {
			done <- slot{index: i, result: a.runProbe(runCtx, reg)}
		}(i, reg)
	}

	filled := make([]bool, len(regs))
	join := time.NewTimer(a.overallDeadline + 2*a.grace)
	defer join.Stop()
collect:
	for pending := len(regs); pending > 0; pending-- {
		select {
		case s := <-done:
			status.Results[s.index] = s.result
			filled[s.index] = true
		case <-join.C:
			break collect
		}
	}

	for i, ok := range filled {
		if ok {
			continue
		}
		r := health.Failed(start, interruptCause(ctx))
		r.Name, r.Required = regs[i].Name, regs[i].Required
		status.Results[i] = r
	}

	status.Overall = health.Reduce(status.Results)
	status.GeneratedAt = time.Now().UTC()
	if a.logger != nil {
		a.logger.WithFields(logrus.Fields{"status_id": status.ID, "overall": status.Overall, "probes": len(regs), "elapsed_ms": time.Since(start).Milliseconds()}).Debug("status aggregation finished")
	}
	return status
}

// runProbe executes one registration and returns within its timeout plus the grace period,
// whether or not the probe honours cancellation.
func (a *Aggregator) runProbe(parent context.Context, reg ports.ProbeRegistration) health.ProbeResult {
	timeout := a.overallDeadline
	if reg.Timeout > 0 && reg.Timeout < timeout {
		timeout = reg.Timeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan health.ProbeResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- health.Failed(start, fmt.Errorf("%w: %v", health.ErrProbePanic, p))
			}
		}()
		done <- reg.Probe.Check(ctx)
	}()

	var result health.ProbeResult
	select {
	case result = <-done:
	case <-ctx.Done():
		// the grace period only lets the probe unwind; it never buys a pass
		grace := time.NewTimer(a.grace)
		select {
		case result = <-done:
		case <-grace.C:
			result = health.Failed(start, ctx.Err())
		}
		grace.Stop()
	}
	if ctx.Err() != nil && result.Healthy {
		result = health.Failed(start, ctx.Err())
	}
	result = a.normalize(reg, start, result)
	a.logResult(result)
	return result
}

// normalize makes the registration authoritative for identity and enforces the
// detail and slow-probe invariants on whatever the probe returned.
func (a *Aggregator) normalize(reg ports.ProbeRegistration, start time.Time, r health.ProbeResult) health.ProbeResult {
	r.Name = reg.Name
	r.Required = reg.Required
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	if r.Latency <= 0 {
		r.Latency = time.Since(start)
	}
	r.Slow = false
	if !r.Healthy {
		if r.Detail == "" {
			r.Detail = health.ErrProbeLogic.Error()
		}
		return r
	}
	r.Detail = ""
	if a.slowThreshold > 0 && r.Latency > a.slowThreshold {
		r.Slow = true
		r.Detail = fmt.Sprintf("slow: %s exceeds %s", r.Latency.Round(time.Millisecond), a.slowThreshold)
	}
	return r
}

func (a *Aggregator) logResult(r health.ProbeResult) {
	if a.logger == nil {
		return
	}
	entry := a.logger.WithFields(logrus.Fields{"probe": r.Name, "required": r.Required, "healthy": r.Healthy, "latency_ms": r.Latency.Milliseconds()})
	switch {
	case !r.Healthy:
		entry.WithField("detail", r.Detail).Warn("probe unhealthy")
	case r.Slow:
		entry.WithField("detail", r.Detail).Info("probe slow")
	default:
		entry.Debug("probe healthy")
	}
}

// interruptCause reports whether an abandoned probe was cut off by the deadline or by the caller.
func interruptCause(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return health.ErrProbeCancelled
	}
	return health.ErrProbeTimeout
}
