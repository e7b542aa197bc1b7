package limiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"CoinGate/pkg/metrics"
)

func TestAcquireRelease(t *testing.T) {
	l := New("test", 2, 0, metrics.Nop{})

	r1, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire 1: %v", err)
	}
	r2, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire 2: %v", err)
	}
	if l.InFlight() != 2 {
		t.Fatalf("expected 2 in flight, got %d", l.InFlight())
	}
	r1()
	r1() // double release is a no-op
	if l.InFlight() != 1 {
		t.Fatalf("expected 1 in flight, got %d", l.InFlight())
	}
	r2()
}

func TestAcquireBusyAfterWait(t *testing.T) {
	l := New("test", 1, 20*time.Millisecond, nil)
	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	if _, err := l.Acquire(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestAcquireHonoursCallerCancel(t *testing.T) {
	l := New("test", 1, time.Minute, nil)
	release, _ := l.Acquire(context.Background())
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLimiterBoundsConcurrency(t *testing.T) {
	const size = 3
	l := New("test", size, 0, nil)

	var cur, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background())
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()
			n := atomic.AddInt32(&cur, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&cur, -1)
		}()
	}
	wg.Wait()

	if peak > size {
		t.Fatalf("peak concurrency %d exceeded limit %d", peak, size)
	}
}
