package probes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

const cacheSentinel = "PONG"

// pinger is satisfied by *redis.Client, *redis.ClusterClient and redis.UniversalClient.
type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// CacheProbe issues a PING through the shared cache client.
type CacheProbe struct {
	client pinger
}

func NewCacheProbe(client pinger) *CacheProbe {
	return &CacheProbe{client: client}
}

// Check is healthy iff PING answers PONG before ctx expires.
func (p *CacheProbe) Check(ctx context.Context) health.ProbeResult {
	start := time.Now()
	reply, err := guard(ctx, func(ctx context.Context) (string, error) {
		return p.client.Ping(ctx).Result()
	})
	if err != nil {
		return health.Failed(start, cacheError(ctx, err))
	}
	if reply != cacheSentinel {
		return health.Failed(start, fmt.Errorf("%w: PING returned %q", health.ErrProbeLogic, reply))
	}
	return health.Passed(start)
}

func cacheError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if c := health.Classify(err); c == health.ErrProbeTimeout || c == health.ErrProbeCancelled {
		return c
	}
	if errors.Is(err, health.ErrProbePanic) {
		return err
	}
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: PING returned nil", health.ErrProbeLogic)
	}
	return fmt.Errorf("%w: %v", health.ErrProbeConnection, err)
}
