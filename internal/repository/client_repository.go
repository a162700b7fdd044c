package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/timesheet-reporting/internal/model"
)

// ClientRepo reads client reference data.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

// ListByName returns all clients ordered by name.
func (r *ClientRepo) ListByName(ctx context.Context) ([]model.Client, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID returns one client or sql.ErrNoRows.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (model.Client, error) {
	var c model.Client
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM clients WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
