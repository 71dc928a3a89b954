package alerts

import (
	"errors"
	"strings"
	"time"
)

// DistributionList names a set of notification endpoints (phone numbers).
type DistributionList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Endpoints []string  `json:"endpoints"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks list invariants.
func (l DistributionList) Validate() error {
	if l.ID == "" {
		return errors.New("distribution list: empty id")
	}
	if l.Name == "" {
		return errors.New("distribution list: empty name")
	}
	return nil
}

// CleanEndpoints returns the endpoints with whitespace trimmed and empties
// dropped. Dispatch is skipped entirely when nothing remains.
func (l DistributionList) CleanEndpoints() []string {
	var result []string
	for _, endpoint := range l.Endpoints {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			result = append(result, endpoint)
		}
	}
	return result
}
