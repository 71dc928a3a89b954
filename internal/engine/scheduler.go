package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ricmagno/KagomeReports-sub002/internal/observability/metrics"
)

// CycleRunner executes one evaluation cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler drives the pipeline on a fixed interval and guarantees at most
// one cycle is in flight. A tick that arrives while a cycle is still running
// is skipped outright, never queued: under a sustained slow data source the
// engine misses samples instead of building a backlog.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   *log.Logger
	inFlight atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewScheduler constructs a scheduler.
func NewScheduler(runner CycleRunner, interval time.Duration, logger *log.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("scheduler: nil runner")
	}
	if interval <= 0 {
		return nil, errors.New("scheduler: interval must be positive")
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}, nil
}

// Start runs the tick loop until the context is cancelled or Stop is called.
// An in-flight cycle always runs to completion.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.runner == nil {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop halts future ticks. Safe to call more than once.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.IncCycleSkipped()
		if s.logger != nil {
			s.logger.Printf("alert engine: previous cycle still running, tick skipped")
		}
		return
	}
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	start := time.Now()
	// The flag must clear on every exit path, panic included, or the engine
	// would stop evaluating for good.
	defer s.inFlight.Store(false)
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveCycle(metrics.CycleAborted, time.Since(start))
			if s.logger != nil {
				s.logger.Printf("alert engine: cycle panic: %v", r)
			}
		}
	}()

	if err := s.runner.RunCycle(ctx); err != nil {
		metrics.ObserveCycle(metrics.CycleAborted, time.Since(start))
		if s.logger != nil {
			s.logger.Printf("alert engine: cycle aborted: %v", err)
		}
		return
	}
	metrics.ObserveCycle(metrics.CycleSuccess, time.Since(start))
}
