package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// PatternRepository is a Postgres repository for alert patterns.
type PatternRepository struct {
	db *sql.DB
}

// NewPatternRepository constructs a repository.
func NewPatternRepository(db *sql.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

const patternColumns = `id, name, pv_suffix,
	hh_limit_suffix, hh_event_suffix, h_limit_suffix, h_event_suffix,
	l_limit_suffix, l_event_suffix, ll_limit_suffix, ll_event_suffix,
	description, created_at, updated_at`

// Create inserts an alert pattern.
func (r *PatternRepository) Create(ctx context.Context, pattern *alerts.AlertPattern) error {
	if r == nil || r.db == nil {
		return errors.New("pattern repo: nil db")
	}
	if pattern == nil {
		return errors.New("pattern repo: nil pattern")
	}
	if err := pattern.Validate(); err != nil {
		return err
	}
	if pattern.CreatedAt.IsZero() {
		pattern.CreatedAt = time.Now().UTC()
	}
	if pattern.UpdatedAt.IsZero() {
		pattern.UpdatedAt = pattern.CreatedAt
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO alert_patterns (
	id, name, pv_suffix,
	hh_limit_suffix, hh_event_suffix, h_limit_suffix, h_event_suffix,
	l_limit_suffix, l_event_suffix, ll_limit_suffix, ll_event_suffix,
	description, created_at, updated_at
) VALUES (
	$1, $2, $3,
	$4, $5, $6, $7,
	$8, $9, $10, $11,
	$12, $13, $14
)`, pattern.ID, pattern.Name, pattern.PVSuffix,
		pattern.HHLimit, pattern.HHEvent, pattern.HLimit, pattern.HEvent,
		pattern.LLimit, pattern.LEvent, pattern.LLLimit, pattern.LLEvent,
		pattern.Description, pattern.CreatedAt, pattern.UpdatedAt)
	return err
}

// Update rewrites an alert pattern.
func (r *PatternRepository) Update(ctx context.Context, pattern *alerts.AlertPattern) error {
	if r == nil || r.db == nil {
		return errors.New("pattern repo: nil db")
	}
	if pattern == nil {
		return errors.New("pattern repo: nil pattern")
	}
	if err := pattern.Validate(); err != nil {
		return err
	}
	pattern.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
UPDATE alert_patterns SET
	name = $2, pv_suffix = $3,
	hh_limit_suffix = $4, hh_event_suffix = $5, h_limit_suffix = $6, h_event_suffix = $7,
	l_limit_suffix = $8, l_event_suffix = $9, ll_limit_suffix = $10, ll_event_suffix = $11,
	description = $12, updated_at = $13
WHERE id = $1`, pattern.ID, pattern.Name, pattern.PVSuffix,
		pattern.HHLimit, pattern.HHEvent, pattern.HLimit, pattern.HEvent,
		pattern.LLimit, pattern.LEvent, pattern.LLLimit, pattern.LLEvent,
		pattern.Description, pattern.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return alerts.ErrNotFound
	}
	return nil
}

// GetByID loads a pattern by id. Returns (nil, nil) when absent.
func (r *PatternRepository) GetByID(ctx context.Context, id string) (*alerts.AlertPattern, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("pattern repo: nil db")
	}
	if id == "" {
		return nil, errors.New("pattern repo: empty id")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+patternColumns+`
FROM alert_patterns
WHERE id = $1
LIMIT 1`, id)
	pattern, err := scanPattern(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pattern, nil
}

// List returns all patterns ordered by name.
func (r *PatternRepository) List(ctx context.Context) ([]alerts.AlertPattern, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("pattern repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+patternColumns+`
FROM alert_patterns
ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []alerts.AlertPattern
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a pattern. Deletion is rejected while any alert config
// still references the pattern.
func (r *PatternRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("pattern repo: nil db")
	}
	if id == "" {
		return errors.New("pattern repo: empty id")
	}
	var references int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alert_configs WHERE pattern_id = $1`, id).Scan(&references); err != nil {
		return err
	}
	if references > 0 {
		return alerts.ErrPatternInUse
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM alert_patterns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return alerts.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (*alerts.AlertPattern, error) {
	var pattern alerts.AlertPattern
	if err := row.Scan(
		&pattern.ID,
		&pattern.Name,
		&pattern.PVSuffix,
		&pattern.HHLimit,
		&pattern.HHEvent,
		&pattern.HLimit,
		&pattern.HEvent,
		&pattern.LLimit,
		&pattern.LEvent,
		&pattern.LLLimit,
		&pattern.LLEvent,
		&pattern.Description,
		&pattern.CreatedAt,
		&pattern.UpdatedAt,
	); err != nil {
		return nil, err
	}
	pattern.CreatedAt = pattern.CreatedAt.UTC()
	pattern.UpdatedAt = pattern.UpdatedAt.UTC()
	return &pattern, nil
}
