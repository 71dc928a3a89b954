package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// DistributionListRepository is a Postgres repository for distribution lists.
// Endpoints are stored as a JSONB array.
type DistributionListRepository struct {
	db *sql.DB
}

// NewDistributionListRepository constructs a repository.
func NewDistributionListRepository(db *sql.DB) *DistributionListRepository {
	return &DistributionListRepository{db: db}
}

// Create inserts a distribution list.
func (r *DistributionListRepository) Create(ctx context.Context, list *alerts.DistributionList) error {
	if r == nil || r.db == nil {
		return errors.New("distribution repo: nil db")
	}
	if list == nil {
		return errors.New("distribution repo: nil list")
	}
	if err := list.Validate(); err != nil {
		return err
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}
	if list.UpdatedAt.IsZero() {
		list.UpdatedAt = list.CreatedAt
	}
	endpoints, err := json.Marshal(list.Endpoints)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO distribution_lists (id, name, endpoints, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`,
		list.ID, list.Name, endpoints, list.CreatedAt, list.UpdatedAt)
	return err
}

// Update rewrites a distribution list.
func (r *DistributionListRepository) Update(ctx context.Context, list *alerts.DistributionList) error {
	if r == nil || r.db == nil {
		return errors.New("distribution repo: nil db")
	}
	if list == nil {
		return errors.New("distribution repo: nil list")
	}
	if err := list.Validate(); err != nil {
		return err
	}
	list.UpdatedAt = time.Now().UTC()
	endpoints, err := json.Marshal(list.Endpoints)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE distribution_lists SET name = $2, endpoints = $3, updated_at = $4
WHERE id = $1`, list.ID, list.Name, endpoints, list.UpdatedAt)
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

// GetByID loads a list by id. Returns (nil, nil) when absent.
func (r *DistributionListRepository) GetByID(ctx context.Context, id string) (*alerts.DistributionList, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("distribution repo: nil db")
	}
	if id == "" {
		return nil, errors.New("distribution repo: empty id")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, endpoints, created_at, updated_at
FROM distribution_lists
WHERE id = $1
LIMIT 1`, id)
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// List returns all lists ordered by name.
func (r *DistributionListRepository) List(ctx context.Context) ([]alerts.DistributionList, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("distribution repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, endpoints, created_at, updated_at
FROM distribution_lists
ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []alerts.DistributionList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a list.
func (r *DistributionListRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("distribution repo: nil db")
	}
	if id == "" {
		return errors.New("distribution repo: empty id")
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM distribution_lists WHERE id = $1`, id)
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

func scanList(row rowScanner) (*alerts.DistributionList, error) {
	var list alerts.DistributionList
	var endpoints []byte
	if err := row.Scan(
		&list.ID,
		&list.Name,
		&endpoints,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(endpoints) > 0 {
		if err := json.Unmarshal(endpoints, &list.Endpoints); err != nil {
			return nil, err
		}
	}
	list.CreatedAt = list.CreatedAt.UTC()
	list.UpdatedAt = list.UpdatedAt.UTC()
	return &list, nil
}
