package alerts

import (
	"errors"
	"time"
)

// AlertPattern is a reusable naming template mapping a base tag to its
// process-value address and per-class limit/event addresses.
type AlertPattern struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PVSuffix    string    `json:"pv_suffix"`
	HHLimit     string    `json:"hh_limit_suffix"`
	HHEvent     string    `json:"hh_event_suffix"`
	HLimit      string    `json:"h_limit_suffix"`
	HEvent      string    `json:"h_event_suffix"`
	LLimit      string    `json:"l_limit_suffix"`
	LEvent      string    `json:"l_event_suffix"`
	LLLimit     string    `json:"ll_limit_suffix"`
	LLEvent     string    `json:"ll_event_suffix"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks pattern invariants.
func (p AlertPattern) Validate() error {
	if p.ID == "" {
		return errors.New("alert pattern: empty id")
	}
	if p.Name == "" {
		return errors.New("alert pattern: empty name")
	}
	if p.PVSuffix == "" {
		return errors.New("alert pattern: empty pv suffix")
	}
	for _, class := range LimitClasses {
		if p.EventSuffix(class) == "" {
			return errors.New("alert pattern: empty event suffix for " + string(class))
		}
	}
	return nil
}

// EventSuffix returns the boolean event-flag suffix for a limit class.
func (p AlertPattern) EventSuffix(class LimitClass) string {
	switch class {
	case LimitHighHigh:
		return p.HHEvent
	case LimitHigh:
		return p.HEvent
	case LimitLow:
		return p.LEvent
	case LimitLowLow:
		return p.LLEvent
	default:
		return ""
	}
}

// LimitSuffix returns the numeric limit suffix for a limit class.
func (p AlertPattern) LimitSuffix(class LimitClass) string {
	switch class {
	case LimitHighHigh:
		return p.HHLimit
	case LimitHigh:
		return p.HLimit
	case LimitLow:
		return p.LLimit
	case LimitLowLow:
		return p.LLLimit
	default:
		return ""
	}
}
