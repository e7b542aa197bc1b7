package limiter

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	domrepo "CoinGate/internal/domain/repository"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when no slot frees up within the acquire timeout.
var ErrBusy = errors.New("limiter: too many concurrent operations")

// Limiter caps how many operations of one kind run at once.
type Limiter struct {
	name    string
	sem     *semaphore.Weighted
	wait    time.Duration
	held    atomic.Int64
	metrics domrepo.Metrics
}

// New creates a limiter with size slots. wait bounds how long Acquire
// queues; 0 means wait as long as ctx allows.
func New(name string, size int, wait time.Duration, metrics domrepo.Metrics) *Limiter {
	if size <= 0 {
		size = 1
	}
	return &Limiter{
		name:    name,
		sem:     semaphore.NewWeighted(int64(size)),
		wait:    wait,
		metrics: metrics,
	}
}

// Acquire takes one slot. Calling release more than once is a no-op.
func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	wctx := ctx
	if l.wait > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	if err := l.sem.Acquire(wctx, 1); err != nil {
		// caller went away: report that, not saturation
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if l.metrics != nil {
			l.metrics.RecordError("limiter_busy_" + l.name)
		}
		return nil, ErrBusy
	}
	l.report(l.held.Add(1))

	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			l.report(l.held.Add(-1))
			l.sem.Release(1)
		}
	}, nil
}

// InFlight returns the number of held slots.
func (l *Limiter) InFlight() int { return int(l.held.Load()) }

func (l *Limiter) report(n int64) {
	if l.metrics != nil {
		l.metrics.SetInFlight(l.name, int(n))
	}
}
