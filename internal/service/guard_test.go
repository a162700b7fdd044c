package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
)

func TestGuardRejectsMissingAndInvalidTokens(t *testing.T) {
	env := newAuthEnv()
	ctx := context.Background()

	_, err := env.guard.Authenticate(ctx, "")
	wantKind(t, err, apperr.KindUnauthorized, "Missing session token.")

	_, err = env.guard.Authenticate(ctx, "not-a-token")
	wantKind(t, err, apperr.KindUnauthorized, "Invalid or expired session token.")

	issued := time.Now().Add(-8 * 24 * time.Hour)
	old := signClaims(t, jwt.MapClaims{
		"sub": "u1", "sid": "s1", "role": model.RoleDefault,
		"iat": issued.Unix(), "exp": issued.Add(7 * 24 * time.Hour).Unix(),
	})
	_, err = env.guard.Authenticate(ctx, old)
	wantKind(t, err, apperr.KindUnauthorized, "Invalid or expired session token.")
}

// signClaims mints an HS256 token with the test secret.
func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestGuardRejectsIncompleteClaims(t *testing.T) {
	env := newAuthEnv()
	now := time.Now()
	raw := signClaims(t, jwt.MapClaims{
		"sub": "u1",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	_, err := env.guard.Authenticate(context.Background(), raw)
	wantKind(t, err, apperr.KindUnauthorized, "Malformed session token data.")
}

func TestGuardUserChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("user gone", func(t *testing.T) {
		env := newAuthEnv()
		token, id := env.signUp(t, "jane@x.com")
		env.users.remove(id.User.ID)
		_, err := env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindUnauthorized, "User not found.")
	})

	t.Run("role changed", func(t *testing.T) {
		env := newAuthEnv()
		token, id := env.signUp(t, "jane@x.com")
		u := id.User
		u.Role = model.RoleAdmin
		env.users.put(u)
		_, err := env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindForbidden, "User role mismatch.")
	})

	t.Run("admin token", func(t *testing.T) {
		env := newAuthEnv()
		env.users.put(model.User{ID: "admin-1", Email: "root@x.com", Role: model.RoleAdmin})
		token, _, err := env.codec.Issue("admin-1", "s-admin", model.RoleAdmin)
		if err != nil {
			t.Fatal(err)
		}
		_, err = env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindForbidden, "Admins are not allowed.")
	})
}

func TestGuardSessionChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		env := newAuthEnv()
		_, id := env.signUp(t, "jane@x.com")
		token, _, err := env.codec.Issue(id.User.ID, "no-such-session", model.RoleDefault)
		if err != nil {
			t.Fatal(err)
		}
		_, err = env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindUnauthorized, "Session not found.")
	})

	t.Run("session of another user", func(t *testing.T) {
		env := newAuthEnv()
		_, jane := env.signUp(t, "jane@x.com")
		_, john := env.signUp(t, "john@x.com")
		token, _, err := env.codec.Issue(john.User.ID, jane.Session.ID, model.RoleDefault)
		if err != nil {
			t.Fatal(err)
		}
		_, err = env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindUnauthorized, "Session not found.")
	})

	t.Run("expired row", func(t *testing.T) {
		env := newAuthEnv()
		token, id := env.signUp(t, "jane@x.com")
		env.sessions.update(id.Session.ID, func(s *model.Session) {
			s.ExpiresAt = time.Now().Add(-time.Minute)
		})
		_, err := env.guard.Authenticate(ctx, token)
		wantKind(t, err, apperr.KindUnauthorized, "Session is expired.")
	})

	t.Run("hash mismatch", func(t *testing.T) {
		env := newAuthEnv()
		_, id := env.signUp(t, "jane@x.com")
		// A second token for the same session id verifies but was never stored.
		issued := time.Now().Add(-time.Minute)
		forged := signClaims(t, jwt.MapClaims{
			"sub": id.User.ID, "sid": id.Session.ID, "role": model.RoleDefault,
			"iat": issued.Unix(), "exp": issued.Add(time.Hour).Unix(),
		})
		_, err := env.guard.Authenticate(ctx, forged)
		wantKind(t, err, apperr.KindUnauthorized, "Incorrect session token.")
	})
}

func TestGuardReturnsIdentity(t *testing.T) {
	env := newAuthEnv()
	token, _ := env.signUp(t, "jane@x.com")
	id, err := env.guard.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if id.User.Email != "jane@x.com" || id.Session.UserID != id.User.ID {
		t.Fatalf("identity = %+v", id)
	}
}
