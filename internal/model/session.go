package model

import "time"

// Session models a row in the `sessions` table.  The id doubles as the
// token's sid claim; only an argon2id hash of the issued token is stored.
// A session is deleted on sign-out and is void once ExpiresAt has passed
// even if the row still exists.
type Session struct {
	ID        string    // sessions.id
	UserID    string    // sessions.user_id (cascade-deleted with the user)
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
	UpdatedAt time.Time // sessions.updated_at
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
