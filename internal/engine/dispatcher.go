package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	"github.com/ricmagno/KagomeReports-sub002/internal/observability/metrics"
)

// Event describes one rising-edge alarm transition ready for notification.
type Event struct {
	ConfigID   string            `json:"config_id"`
	Tag        string            `json:"tag"`
	Limit      alerts.LimitClass `json:"limit"`
	LimitLabel string            `json:"limit_label"`
	Value      string            `json:"value"`
	Endpoints  []string          `json:"endpoints,omitempty"`
	At         time.Time         `json:"at"`
}

// Notifier delivers an alarm event. Errors are logged by the dispatcher and
// never reach the evaluation pipeline.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Dispatcher decouples notification delivery from the evaluation cycle:
// events are queued and delivered by background workers so a slow transport
// cannot delay the next cycle.
type Dispatcher struct {
	notifier Notifier
	logger   *log.Logger
	queue    chan Event
	timeout  time.Duration
	wg       sync.WaitGroup
	once     sync.Once
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*dispatcherSettings)

type dispatcherSettings struct {
	queueSize int
	workers   int
	timeout   time.Duration
}

// WithQueueSize sets the submit queue capacity.
func WithQueueSize(size int) DispatcherOption {
	return func(s *dispatcherSettings) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkers sets the number of delivery workers.
func WithWorkers(workers int) DispatcherOption {
	return func(s *dispatcherSettings) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithDispatchTimeout bounds each delivery attempt.
func WithDispatchTimeout(timeout time.Duration) DispatcherOption {
	return func(s *dispatcherSettings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewDispatcher constructs a dispatcher and starts its workers.
func NewDispatcher(notifier Notifier, logger *log.Logger, opts ...DispatcherOption) (*Dispatcher, error) {
	if notifier == nil {
		return nil, errors.New("dispatcher: nil notifier")
	}
	settings := dispatcherSettings{
		queueSize: 64,
		workers:   1,
		timeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	d := &Dispatcher{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan Event, settings.queueSize),
		timeout:  settings.timeout,
	}
	for i := 0; i < settings.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d, nil
}

// Submit queues an event without blocking. When the queue is saturated the
// event is dropped and counted; evaluation never waits on the transport.
func (d *Dispatcher) Submit(event Event) bool {
	if d == nil {
		return false
	}
	select {
	case d.queue <- event:
		return true
	default:
		metrics.IncNotification(metrics.NotificationDropped)
		if d.logger != nil {
			d.logger.Printf("alert dispatch: queue full, dropped notification for %s %s", event.Tag, event.Limit)
		}
		return false
	}
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.notifier.Notify(ctx, event); err != nil {
		metrics.IncNotification(metrics.NotificationError)
		if d.logger != nil {
			d.logger.Printf("alert dispatch: notify failed for %s %s: %v", event.Tag, event.Limit, err)
		}
		return
	}
	metrics.IncNotification(metrics.NotificationSent)
}
