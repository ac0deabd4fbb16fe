package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/status-service/internal/application/services"
	"github.com/avatarctic/status-service/internal/core/domain/health"
	"github.com/avatarctic/status-service/internal/core/ports"
	tmocks "github.com/avatarctic/status-service/test/mocks"
)

func TestNewStatusService_RejectsMalformedRegistry(t *testing.T) {
	ok := tmocks.HealthyAfter(0)
	cases := map[string][]ports.ProbeRegistration{
		"duplicate names": {reg("db", true, ok), reg("db", false, ok)},
		"empty name":      {reg("", true, ok)},
		"blank name":      {reg("   ", true, ok)},
		"nil adapter":     {reg("db", true, nil)},
		"negative timeout": {
			{Name: "db", Required: true, Timeout: -time.Second, Probe: ok},
		},
	}
	for name, regs := range cases {
		t.Run(name, func(t *testing.T) {
			svc, err := impl.NewStatusService(regs, nil, nil, quietLogger())
			require.Error(t, err)
			assert.ErrorIs(t, err, health.ErrInvalidRegistry)
			assert.Nil(t, svc)
		})
	}
}

func TestNewStatusService_AcceptsEmptyRegistry(t *testing.T) {
	svc, err := impl.NewStatusService(nil, nil, nil, nil)
	require.NoError(t, err)
	status := svc.Report(context.Background())
	assert.Equal(t, health.StatusHealthy, status.Overall)
	assert.Empty(t, status.Results)
}

func TestStatusService_ReportReprobesEveryCall(t *testing.T) {
	probe := tmocks.HealthyAfter(0)
	recorder := &tmocks.StatusRecorderMock{}
	svc, err := impl.NewStatusService([]ports.ProbeRegistration{reg("db", true, probe)}, newAggregator(time.Second, 10*time.Millisecond), recorder, quietLogger())
	require.NoError(t, err)

	first := svc.Report(context.Background())
	second := svc.Report(context.Background())

	assert.Equal(t, 2, probe.Calls())
	assert.Equal(t, 2, recorder.Count())
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotSame(t, first, second)
}

func TestStatusService_RegistryIsCopiedAtConstruction(t *testing.T) {
	regs := []ports.ProbeRegistration{reg("db", true, tmocks.HealthyAfter(0))}
	svc, err := impl.NewStatusService(regs, newAggregator(time.Second, 10*time.Millisecond), nil, quietLogger())
	require.NoError(t, err)

	regs[0] = reg("db", true, tmocks.FailingAfter(0, "swapped"))

	status := svc.Report(context.Background())
	assert.Equal(t, health.StatusHealthy, status.Overall)
}

func TestStatusService_ConcurrentReports(t *testing.T) {
	svc, err := impl.NewStatusService([]ports.ProbeRegistration{
		reg("db", true, tmocks.HealthyAfter(5*time.Millisecond)),
		reg("cache", false, tmocks.FailingAfter(5*time.Millisecond, "connection refused")),
	}, newAggregator(time.Second, 10*time.Millisecond), &tmocks.StatusRecorderMock{}, quietLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	statuses := make([]*health.ServiceStatus, 16)
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i] = svc.Report(context.Background())
		}(i)
	}
	wg.Wait()

	for _, s := range statuses {
		require.NotNil(t, s)
		assert.Equal(t, health.StatusDegraded, s.Overall)
		assert.Equal(t, []string{"db", "cache"}, names(s.Results))
	}
}
