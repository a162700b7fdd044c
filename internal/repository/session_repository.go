package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/timesheet-reporting/internal/model"
)

// SessionRepo persists server-side sessions.  Only the token hash is stored;
// revocation is a hard delete so a revoked token can never match again.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetForUser returns the session with the given id owned by userID, or
// sql.ErrNoRows.  Expiry is left to the caller so it can report it distinctly.
func (r *SessionRepo) GetForUser(ctx context.Context, id, userID string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, created_at, updated_at FROM sessions WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Delete removes exactly one session.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// DeleteAllForUser removes every session owned by userID.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
