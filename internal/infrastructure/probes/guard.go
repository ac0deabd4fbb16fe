package probes

import (
	"context"
	"fmt"

	"github.com/avatarctic/status-service/internal/core/domain/health"
)

// guard runs call and returns as soon as either call finishes or ctx is done.
// A driver that ignores ctx keeps running in the background until it returns on
// its own; the buffered channel lets that goroutine exit without a receiver.
// A panic inside call is returned as health.ErrProbePanic.
func guard[T any](ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", health.ErrProbePanic, p)}
			}
		}()
		v, err := call(ctx)
		done <- outcome{val: v, err: err}
	}()
	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		select {
		case o := <-done:
			return o.val, o.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}
