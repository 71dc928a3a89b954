package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	"github.com/ricmagno/KagomeReports-sub002/internal/observability/metrics"
)

// NodeReader performs one batched read against the process-data source.
// The whole call either succeeds for every address or fails.
type NodeReader interface {
	ReadBatch(ctx context.Context, addresses []string) (map[string]any, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

const pvPlaceholder = "n/a"

// Engine runs the read-evaluate-notify pipeline one cycle at a time.
type Engine struct {
	configs    ConfigLister
	patterns   PatternReader
	lists      ListReader
	reader     NodeReader
	store      *TransitionStore
	dispatcher *Dispatcher
	separator  string
	clock      Clock
	logger     *log.Logger
}

// EngineOption customizes the engine.
type EngineOption func(*Engine)

// WithSeparator sets the address separator.
func WithSeparator(separator string) EngineOption {
	return func(e *Engine) {
		if separator != "" {
			e.separator = separator
		}
	}
}

// WithClock overrides the default clock.
func WithClock(clock Clock) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine constructs an alarm evaluation engine.
func NewEngine(configs ConfigLister, patterns PatternReader, lists ListReader, reader NodeReader, store *TransitionStore, dispatcher *Dispatcher, logger *log.Logger, opts ...EngineOption) (*Engine, error) {
	if configs == nil {
		return nil, errors.New("engine: nil config lister")
	}
	if patterns == nil {
		return nil, errors.New("engine: nil pattern reader")
	}
	if lists == nil {
		return nil, errors.New("engine: nil list reader")
	}
	if reader == nil {
		return nil, errors.New("engine: nil node reader")
	}
	if store == nil {
		store = NewTransitionStore()
	}
	if dispatcher == nil {
		return nil, errors.New("engine: nil dispatcher")
	}
	e := &Engine{
		configs:    configs,
		patterns:   patterns,
		lists:      lists,
		reader:     reader,
		store:      store,
		dispatcher: dispatcher,
		separator:  ".",
		clock:      systemClock{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Store exposes the transition store, mainly for diagnostics.
func (e *Engine) Store() *TransitionStore {
	if e == nil {
		return nil
	}
	return e.store
}

// RunCycle executes one evaluation cycle: snapshot, resolve, one batched
// read, edge detection, dispatch. A read failure aborts the whole cycle
// fail-closed: no transition state is touched and nothing is notified.
func (e *Engine) RunCycle(ctx context.Context) error {
	if e == nil {
		return errors.New("engine: nil engine")
	}

	snapshot, err := loadSnapshot(ctx, e.configs, e.patterns, e.lists, e.logger)
	if err != nil {
		return fmt.Errorf("engine: load configuration: %w", err)
	}
	if snapshot.Empty() {
		return nil
	}

	nodes, addresses := resolve(snapshot, e.separator)
	if len(addresses) == 0 {
		return nil
	}

	readStart := e.clock.Now()
	values, err := e.reader.ReadBatch(ctx, addresses)
	metrics.ObserveBatchRead(resultOf(err), time.Since(readStart))
	if err != nil {
		return fmt.Errorf("engine: batch read: %w", err)
	}

	e.evaluate(snapshot, nodes, values)
	return nil
}

func (e *Engine) evaluate(snapshot Snapshot, nodes []ResolvedNodes, values map[string]any) {
	now := e.clock.Now().UTC()
	for _, node := range nodes {
		pv := formatValue(values[node.PVAddress])
		for _, class := range node.Config.MonitoredClasses() {
			address, ok := node.Events[class]
			if !ok {
				continue
			}
			key := StateKey{ConfigID: node.Config.ID, Limit: class}
			prev := e.store.Get(key)
			curr := truthy(values[address])

			switch {
			case curr && !prev:
				e.raise(snapshot, node.Config, class, pv, now)
			case !curr && prev:
				if e.logger != nil {
					e.logger.Printf("alert engine: %s %s cleared", node.Config.TagBase, class.Label())
				}
			}
			e.store.Set(key, curr)
		}
	}
}

func (e *Engine) raise(snapshot Snapshot, config alerts.AlertConfig, class alerts.LimitClass, pv string, at time.Time) {
	event := Event{
		ConfigID:   config.ID,
		Tag:        config.TagBase,
		Limit:      class,
		LimitLabel: class.Label(),
		Value:      pv,
		At:         at,
	}
	if list, ok := snapshot.Lists[config.DistributionListID]; ok {
		event.Endpoints = list.CleanEndpoints()
	}
	if e.logger != nil {
		e.logger.Printf("alert engine: %s %s raised, value=%s", config.TagBase, class.Label(), pv)
	}
	if len(event.Endpoints) == 0 {
		if e.logger != nil {
			e.logger.Printf("alert engine: %s %s has no notification endpoints, dispatch skipped", config.TagBase, class.Label())
		}
		return
	}
	e.dispatcher.Submit(event)
}

// truthy interprets a raw data-source value as a boolean event flag.
// Missing or unrecognized values are treated as false.
func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on":
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// formatValue renders a process value for inclusion in a message.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return pvPlaceholder
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case string:
		if v == "" {
			return pvPlaceholder
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func resultOf(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultSuccess
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
