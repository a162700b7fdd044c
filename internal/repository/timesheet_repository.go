package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/timesheet-reporting/internal/model"
)

// TimesheetRepo provides data access to the timesheet_entries table.  All
// timestamps are written and read in UTC.
type TimesheetRepo struct {
	db *sql.DB
}

// NewTimesheetRepo returns a TimesheetRepo bound to the provided database.
func NewTimesheetRepo(db *sql.DB) *TimesheetRepo { return &TimesheetRepo{db: db} }

// CreateIfNoOverlap inserts e unless another entry of the same user on the
// same date overlaps it (half-open test: existing.start < e.end AND
// existing.end > e.start), in which case ErrOverlap is returned and nothing
// is written.
//
// The check and the insert run in one transaction that first locks the
// owning user row.  Concurrent inserts for the same user therefore queue
// behind each other and the second one sees the first one's row, which
// closes the check-then-insert race.  Inserts for different users do not
// contend.
func (r *TimesheetRepo) CreateIfNoOverlap(ctx context.Context, e *model.TimesheetEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = ? FOR UPDATE`, e.UserID).Scan(&locked); err != nil {
		return err
	}

	var conflicting string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM timesheet_entries
		 WHERE user_id = ? AND date = ? AND start_time < ? AND end_time > ?
		 LIMIT 1`,
		e.UserID, e.Date, e.EndTime, e.StartTime,
	).Scan(&conflicting)
	switch {
	case err == nil:
		return ErrOverlap
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	var remarks sql.NullString
	if e.Remarks != nil {
		remarks = sql.NullString{String: *e.Remarks, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO timesheet_entries
		 (id, user_id, client_id, date, start_time, end_time, remarks, total_hrs, position, site_address, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.ClientID, e.Date, e.StartTime, e.EndTime, remarks,
		e.TotalHrs, e.Position, e.SiteAddress, e.Status, e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListForUser returns the user's entries joined with their client, newest
// date first.  Entries on the same date are ordered by start time.
func (r *TimesheetRepo) ListForUser(ctx context.Context, userID string) ([]model.TimesheetRow, error) {
	const q = `SELECT t.id, t.date, t.start_time, t.end_time, t.total_hrs, t.remarks, t.status,
	                  t.created_at, t.updated_at, t.position, t.site_address,
	                  c.id, c.name, c.created_at, c.updated_at
	           FROM timesheet_entries t
	           LEFT JOIN clients c ON c.id = t.client_id
	           WHERE t.user_id = ?
	           ORDER BY t.date DESC, t.start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TimesheetRow{}
	for rows.Next() {
		var (
			row        model.TimesheetRow
			remarks    sql.NullString
			clientID   sql.NullString
			clientName sql.NullString
			clientCA   sql.NullTime
			clientUA   sql.NullTime
		)
		if err := rows.Scan(
			&row.ID, &row.Date, &row.StartTime, &row.EndTime, &row.TotalHrs, &remarks, &row.Status,
			&row.CreatedAt, &row.UpdatedAt, &row.Position, &row.SiteAddress,
			&clientID, &clientName, &clientCA, &clientUA,
		); err != nil {
			return nil, err
		}
		if remarks.Valid {
			s := remarks.String
			row.Remarks = &s
		}
		if clientID.Valid {
			row.Client = &model.Client{
				ID:        clientID.String,
				Name:      clientName.String,
				CreatedAt: clientCA.Time,
				UpdatedAt: clientUA.Time,
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
