package engine

import (
	"sync"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// StateKey identifies one (alert config, limit class) pair.
type StateKey struct {
	ConfigID string
	Limit    alerts.LimitClass
}

// TransitionStore keeps the last observed alarm state per (config, limit)
// pair. It lives only in process memory; a restart resets every pair to
// normal. Absence of a key is equivalent to "previously false".
//
// Only the evaluator mutates the store, and only one cycle runs at a time,
// but the store is still guarded so tests and future per-config parallelism
// stay safe: keys are disjoint per (config, limit).
type TransitionStore struct {
	mu    sync.RWMutex
	state map[StateKey]bool
}

// NewTransitionStore constructs an empty store.
func NewTransitionStore() *TransitionStore {
	return &TransitionStore{state: make(map[StateKey]bool)}
}

// Get returns the last observed state, defaulting to false.
func (s *TransitionStore) Get(key StateKey) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[key]
}

// Set records the latest observation for a key.
func (s *TransitionStore) Set(key StateKey, alarmed bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.state[key] = alarmed
	s.mu.Unlock()
}

// Has reports whether the key has ever been evaluated.
func (s *TransitionStore) Has(key StateKey) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state[key]
	return ok
}

// Len returns the number of tracked pairs.
func (s *TransitionStore) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}
