package alerts

import "errors"

var (
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("alerts: not found")

	// ErrPatternInUse indicates a pattern is still referenced by alert configs.
	ErrPatternInUse = errors.New("alerts: pattern in use")
)
