package health

import (
	"context"
	"errors"
	"net"
)

var (
	ErrProbeTimeout    = errors.New("timeout")
	ErrProbeCancelled  = errors.New("cancelled")
	ErrProbeConnection = errors.New("connection failure")
	ErrProbeLogic      = errors.New("unexpected response")
	ErrProbePanic      = errors.New("probe panicked")

	// ErrInvalidRegistry marks a malformed probe registry. It is only returned at wiring time.
	ErrInvalidRegistry = errors.New("invalid probe registry")
)

// Classify maps an arbitrary probe error onto the probe error taxonomy.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrProbeTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrProbeTimeout
	case errors.Is(err, ErrProbeCancelled), errors.Is(err, context.Canceled):
		return ErrProbeCancelled
	case errors.Is(err, ErrProbeLogic):
		return ErrProbeLogic
	case errors.Is(err, ErrProbePanic):
		return ErrProbePanic
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrProbeTimeout
	}
	return ErrProbeConnection
}

// Detail renders err as the diagnostic string carried by an unhealthy ProbeResult.
func Detail(err error) string {
	switch Classify(err) {
	case nil:
		return ""
	case ErrProbeTimeout:
		return ErrProbeTimeout.Error()
	case ErrProbeCancelled:
		return ErrProbeCancelled.Error()
	}
	return err.Error()
}
