package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	count atomic.Int64
	gate  chan struct{}
}

func (r *countingRunner) RunCycle(_ context.Context) error {
	r.count.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	return nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestSchedulerRunsCycles(t *testing.T) {
	runner := &countingRunner{}
	scheduler, err := NewScheduler(runner, 5*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	go scheduler.Start(context.Background())
	defer scheduler.Stop()

	waitFor(t, time.Second, func() bool { return runner.count.Load() >= 2 })
}

func TestSchedulerSkipsTicksWhileCycleRuns(t *testing.T) {
	runner := &countingRunner{gate: make(chan struct{})}
	scheduler, err := NewScheduler(runner, 5*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	go scheduler.Start(context.Background())
	defer scheduler.Stop()

	waitFor(t, time.Second, func() bool { return runner.count.Load() == 1 })

	// Let several ticks elapse while the first cycle is still blocked.
	time.Sleep(50 * time.Millisecond)
	if got := runner.count.Load(); got != 1 {
		t.Fatalf("expected overlapping ticks to be skipped, got %d cycles", got)
	}

	close(runner.gate)
	waitFor(t, time.Second, func() bool { return runner.count.Load() >= 2 })
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	runner := &countingRunner{}
	scheduler, err := NewScheduler(runner, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	done := make(chan struct{})
	go func() {
		scheduler.Start(context.Background())
		close(done)
	}()

	scheduler.Stop()
	scheduler.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop")
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	runner := &countingRunner{}
	scheduler, err := NewScheduler(runner, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop on cancel")
	}
}

func TestSchedulerRejectsBadArguments(t *testing.T) {
	if _, err := NewScheduler(nil, time.Second, nil); err == nil {
		t.Fatalf("expected error for nil runner")
	}
	if _, err := NewScheduler(&countingRunner{}, 0, nil); err == nil {
		t.Fatalf("expected error for non-positive interval")
	}
}
