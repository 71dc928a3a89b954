package alerts

import (
	"errors"
	"time"
)

// AlertConfig is one monitored point: a base tag plus the limit classes to
// watch, the pattern used to derive addresses and the recipients to notify.
type AlertConfig struct {
	ID                 string    `json:"id"`
	TagBase            string    `json:"tag_base"`
	Description        string    `json:"description,omitempty"`
	MonitorHH          bool      `json:"monitor_hh"`
	MonitorH           bool      `json:"monitor_h"`
	MonitorL           bool      `json:"monitor_l"`
	MonitorLL          bool      `json:"monitor_ll"`
	PatternID          string    `json:"pattern_id"`
	DistributionListID string    `json:"distribution_list_id"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Validate checks config invariants.
func (c AlertConfig) Validate() error {
	if c.ID == "" {
		return errors.New("alert config: empty id")
	}
	if c.TagBase == "" {
		return errors.New("alert config: empty tag base")
	}
	if c.PatternID == "" {
		return errors.New("alert config: empty pattern id")
	}
	if c.DistributionListID == "" {
		return errors.New("alert config: empty distribution list id")
	}
	return nil
}

// Monitors reports whether the config watches the given limit class.
func (c AlertConfig) Monitors(class LimitClass) bool {
	switch class {
	case LimitHighHigh:
		return c.MonitorHH
	case LimitHigh:
		return c.MonitorH
	case LimitLow:
		return c.MonitorL
	case LimitLowLow:
		return c.MonitorLL
	default:
		return false
	}
}

// MonitoredClasses returns the classes the config watches, in order.
func (c AlertConfig) MonitoredClasses() []LimitClass {
	var classes []LimitClass
	for _, class := range LimitClasses {
		if c.Monitors(class) {
			classes = append(classes, class)
		}
	}
	return classes
}
