package probes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/status-service/internal/core/domain/health"
	infraDB "github.com/avatarctic/status-service/internal/infrastructure/db"
)

const (
	relationalQuery    = "SELECT 1"
	relationalSentinel = 1
)

// rowGetter is the slice of *sqlx.DB the relational probe needs.
type rowGetter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// RelationalProbe issues a trivial round-trip query through the shared pool.
type RelationalProbe struct {
	db rowGetter
}

// NewRelationalProbe creates a probe over the database pool.
func NewRelationalProbe(db *infraDB.Database) *RelationalProbe {
	return &RelationalProbe{db: db.DB}
}

// NewRelationalProbeFromGetter creates a probe over any sqlx-style handle.
func NewRelationalProbeFromGetter(db rowGetter) *RelationalProbe {
	return &RelationalProbe{db: db}
}

// Check is healthy iff SELECT 1 returns 1 before ctx expires.
func (p *RelationalProbe) Check(ctx context.Context) health.ProbeResult {
	start := time.Now()
	got, err := guard(ctx, func(ctx context.Context) (int, error) {
		var v int
		err := p.db.GetContext(ctx, &v, relationalQuery)
		return v, err
	})
	if err != nil {
		return health.Failed(start, relationalError(ctx, err))
	}
	if got != relationalSentinel {
		return health.Failed(start, fmt.Errorf("%w: %s returned %d", health.ErrProbeLogic, relationalQuery, got))
	}
	return health.Passed(start)
}

func relationalError(ctx context.Context, err error) error {
	// drivers report an interrupted query in their own words; the context is authoritative
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if c := health.Classify(err); c == health.ErrProbeTimeout || c == health.ErrProbeCancelled {
		return c
	}
	if errors.Is(err, health.ErrProbePanic) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s returned no rows", health.ErrProbeLogic, relationalQuery)
	}
	return fmt.Errorf("%w: %v", health.ErrProbeConnection, err)
}
