package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/status-service/internal/core/domain/health"
	"github.com/avatarctic/status-service/internal/core/ports"
)

// StatusService owns the probe registry and produces a fresh ServiceStatus per call.
type StatusService struct {
	registrations []ports.ProbeRegistration
	aggregator    *Aggregator
	recorder      ports.StatusRecorder
	logger        *logrus.Logger
}

// NewStatusService validates and copies the registry. The registry cannot change afterwards.
// A malformed registry is reported as health.ErrInvalidRegistry.
func NewStatusService(regs []ports.ProbeRegistration, aggregator *Aggregator, recorder ports.StatusRecorder, logger *logrus.Logger) (*StatusService, error) {
	if err := validateRegistrations(regs); err != nil {
		return nil, err
	}
	if aggregator == nil {
		aggregator = NewAggregator(nil, logger)
	}
	owned := make([]ports.ProbeRegistration, len(regs))
	copy(owned, regs)
	if logger != nil {
		names := make([]string, 0, len(owned))
		for _, r := range owned {
			names = append(names, r.Name)
		}
		logger.WithField("probes", strings.Join(names, ",")).Info("status service registry assembled")
	}
	return &StatusService{registrations: owned, aggregator: aggregator, recorder: recorder, logger: logger}, nil
}

func validateRegistrations(regs []ports.ProbeRegistration) error {
	seen := make(map[string]struct{}, len(regs))
	for i, r := range regs {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: registration %d has no name", health.ErrInvalidRegistry, i)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: duplicate probe name %q", health.ErrInvalidRegistry, r.Name)
		}
		seen[r.Name] = struct{}{}
		if r.Probe == nil {
			return fmt.Errorf("%w: probe %q has no adapter", health.ErrInvalidRegistry, r.Name)
		}
		if r.Timeout < 0 {
			return fmt.Errorf("%w: probe %q has negative timeout %s", health.ErrInvalidRegistry, r.Name, r.Timeout)
		}
	}
	return nil
}

// Report re-probes every registered dependency. It never returns nil.
func (s *StatusService) Report(ctx context.Context) *health.ServiceStatus {
	status := s.aggregator.Run(ctx, s.registrations)
	if s.recorder != nil {
		s.recorder.ObserveReport(status)
	}
	if s.logger != nil {
		entry := s.logger.WithFields(logrus.Fields{"status_id": status.ID, "overall": status.Overall})
		if status.Overall != health.StatusHealthy {
			entry.Info("service status not healthy")
		} else {
			entry.Debug("service status healthy")
		}
	}
	return status
}
