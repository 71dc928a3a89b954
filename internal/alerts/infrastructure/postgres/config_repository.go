package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// AlertConfigRepository is a Postgres repository for alert configs.
type AlertConfigRepository struct {
	db *sql.DB
}

// NewAlertConfigRepository constructs a repository.
func NewAlertConfigRepository(db *sql.DB) *AlertConfigRepository {
	return &AlertConfigRepository{db: db}
}

const configColumns = `id, tag_base, description,
	monitor_hh, monitor_h, monitor_l, monitor_ll,
	pattern_id, distribution_list_id, is_active, created_at, updated_at`

// Create inserts an alert config.
func (r *AlertConfigRepository) Create(ctx context.Context, config *alerts.AlertConfig) error {
	if r == nil || r.db == nil {
		return errors.New("alert config repo: nil db")
	}
	if config == nil {
		return errors.New("alert config repo: nil config")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now().UTC()
	}
	if config.UpdatedAt.IsZero() {
		config.UpdatedAt = config.CreatedAt
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO alert_configs (
	id, tag_base, description,
	monitor_hh, monitor_h, monitor_l, monitor_ll,
	pattern_id, distribution_list_id, is_active, created_at, updated_at
) VALUES (
	$1, $2, $3,
	$4, $5, $6, $7,
	$8, $9, $10, $11, $12
)`, config.ID, config.TagBase, config.Description,
		config.MonitorHH, config.MonitorH, config.MonitorL, config.MonitorLL,
		config.PatternID, config.DistributionListID, config.Active,
		config.CreatedAt, config.UpdatedAt)
	return err
}

// Update rewrites an alert config.
func (r *AlertConfigRepository) Update(ctx context.Context, config *alerts.AlertConfig) error {
	if r == nil || r.db == nil {
		return errors.New("alert config repo: nil db")
	}
	if config == nil {
		return errors.New("alert config repo: nil config")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	config.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
UPDATE alert_configs SET
	tag_base = $2, description = $3,
	monitor_hh = $4, monitor_h = $5, monitor_l = $6, monitor_ll = $7,
	pattern_id = $8, distribution_list_id = $9, is_active = $10, updated_at = $11
WHERE id = $1`, config.ID, config.TagBase, config.Description,
		config.MonitorHH, config.MonitorH, config.MonitorL, config.MonitorLL,
		config.PatternID, config.DistributionListID, config.Active, config.UpdatedAt)
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

// GetByID loads a config by id. Returns (nil, nil) when absent.
func (r *AlertConfigRepository) GetByID(ctx context.Context, id string) (*alerts.AlertConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alert config repo: nil db")
	}
	if id == "" {
		return nil, errors.New("alert config repo: empty id")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+configColumns+`
FROM alert_configs
WHERE id = $1
LIMIT 1`, id)
	config, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return config, nil
}

// List returns all configs ordered by tag base.
func (r *AlertConfigRepository) List(ctx context.Context) ([]alerts.AlertConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alert config repo: nil db")
	}
	return r.query(ctx, `
SELECT `+configColumns+`
FROM alert_configs
ORDER BY tag_base ASC`)
}

// ListActive returns only active configs; this is the engine's per-cycle
// snapshot source.
func (r *AlertConfigRepository) ListActive(ctx context.Context) ([]alerts.AlertConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alert config repo: nil db")
	}
	return r.query(ctx, `
SELECT `+configColumns+`
FROM alert_configs
WHERE is_active = TRUE
ORDER BY tag_base ASC`)
}

// Delete removes a config.
func (r *AlertConfigRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("alert config repo: nil db")
	}
	if id == "" {
		return errors.New("alert config repo: empty id")
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM alert_configs WHERE id = $1`, id)
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

func (r *AlertConfigRepository) query(ctx context.Context, query string, args ...any) ([]alerts.AlertConfig, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []alerts.AlertConfig
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *config)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanConfig(row rowScanner) (*alerts.AlertConfig, error) {
	var config alerts.AlertConfig
	if err := row.Scan(
		&config.ID,
		&config.TagBase,
		&config.Description,
		&config.MonitorHH,
		&config.MonitorH,
		&config.MonitorL,
		&config.MonitorLL,
		&config.PatternID,
		&config.DistributionListID,
		&config.Active,
		&config.CreatedAt,
		&config.UpdatedAt,
	); err != nil {
		return nil, err
	}
	config.CreatedAt = config.CreatedAt.UTC()
	config.UpdatedAt = config.UpdatedAt.UTC()
	return &config, nil
}
