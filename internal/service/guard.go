package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
)

// Identity is the acting user and the session the request was made with.
type Identity struct {
	User    model.User
	Session model.Session
}

// Guard resolves a raw bearer token into an Identity.  A token is accepted
// only when its signature verifies and a live server-side session still
// holds its hash, so sign-out takes effect before the token expires.
type Guard struct {
	users    UserStore
	sessions SessionStore
	codec    TokenCodec
	hasher   SecretHasher
	now      func() time.Time
}

// NewGuard builds a Guard.
func NewGuard(users UserStore, sessions SessionStore, codec TokenCodec, hasher SecretHasher) *Guard {
	return &Guard{users: users, sessions: sessions, codec: codec, hasher: hasher, now: time.Now}
}

// Authenticate runs the checks in order and stops at the first failure.
func (g *Guard) Authenticate(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, apperr.Unauthorized("Missing session token.")
	}

	claims, ok := g.codec.Verify(raw)
	if !ok {
		return Identity{}, apperr.Unauthorized("Invalid or expired session token.")
	}
	if !claims.Complete() {
		return Identity{}, apperr.Unauthorized("Malformed session token data.")
	}
	now := g.now()
	if now.After(claims.ExpiresAt) {
		return Identity{}, apperr.Unauthorized("Invalid or expired session token.")
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, apperr.Unauthorized("User not found.")
	}
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	// A role change since issue makes every older token stale.
	if user.Role != claims.Role {
		return Identity{}, apperr.Forbidden("User role mismatch.")
	}
	if user.IsAdmin() {
		return Identity{}, apperr.Forbidden("Admins are not allowed.")
	}

	sess, err := g.sessions.GetForUser(ctx, claims.SessionID, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, apperr.Unauthorized("Session not found.")
	}
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	if sess.Expired(now) {
		return Identity{}, apperr.Unauthorized("Session is expired.")
	}
	if !g.hasher.Verify(sess.TokenHash, raw) {
		return Identity{}, apperr.Unauthorized("Incorrect session token.")
	}

	return Identity{User: user, Session: sess}, nil
}
