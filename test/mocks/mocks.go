package mocks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

// ProbeMock is a lightweight mock for ports.Probe
type ProbeMock struct {
	CheckFn func(ctx context.Context) health.ProbeResult
	calls   atomic.Int64
}

func (m *ProbeMock) Check(ctx context.Context) health.ProbeResult {
	m.calls.Add(1)
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return health.ProbeResult{Healthy: true, CheckedAt: time.Now()}
}

// Calls returns how many times Check was invoked.
func (m *ProbeMock) Calls() int { return int(m.calls.Load()) }

// HealthyAfter returns a probe that reports healthy after delay, honouring ctx.
func HealthyAfter(delay time.Duration) *ProbeMock {
	return &ProbeMock{CheckFn: func(ctx context.Context) health.ProbeResult {
		start := time.Now()
		select {
		case <-time.After(delay):
			return health.Passed(start)
		case <-ctx.Done():
			return health.Failed(start, ctx.Err())
		}
	}}
}

// FailingAfter returns a probe that reports detail as unhealthy after delay.
func FailingAfter(delay time.Duration, detail string) *ProbeMock {
	return &ProbeMock{CheckFn: func(ctx context.Context) health.ProbeResult {
		start := time.Now()
		select {
		case <-time.After(delay):
			return health.ProbeResult{Healthy: false, Detail: detail, Latency: time.Since(start), CheckedAt: time.Now()}
		case <-ctx.Done():
			return health.Failed(start, ctx.Err())
		}
	}}
}

// Hanging returns a probe that ignores ctx and only returns once release is closed.
func Hanging(release <-chan struct{}) *ProbeMock {
	return &ProbeMock{CheckFn: func(ctx context.Context) health.ProbeResult {
		<-release
		return health.ProbeResult{Healthy: true}
	}}
}

// StatusServiceMock is a lightweight mock for ports.StatusService
type StatusServiceMock struct {
	ReportFn func(ctx context.Context) *health.ServiceStatus
}

func (m *StatusServiceMock) Report(ctx context.Context) *health.ServiceStatus {
	if m.ReportFn != nil {
		return m.ReportFn(ctx)
	}
	return &health.ServiceStatus{ID: uuid.New(), Overall: health.StatusHealthy, Results: []health.ProbeResult{}, GeneratedAt: time.Now().UTC()}
}

// StatusRecorderMock collects observed reports
type StatusRecorderMock struct {
	mu      sync.Mutex
	Reports []*health.ServiceStatus
}

func (m *StatusRecorderMock) ObserveReport(status *health.ServiceStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports = append(m.Reports, status)
}

// Count returns the number of observed reports.
func (m *StatusRecorderMock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Reports)
}
