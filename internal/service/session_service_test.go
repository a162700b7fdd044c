package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

type authEnv struct {
	users    *fakeUsers
	sessions *fakeSessions
	codec    *utils.TokenCodec
	events   *recordingPublisher
	svc      *SessionService
	guard    *Guard
}

func newAuthEnv() *authEnv {
	env := &authEnv{
		users:    newFakeUsers(),
		sessions: newFakeSessions(),
		codec:    utils.NewTokenCodec(testSecret),
		events:   &recordingPublisher{},
	}
	env.svc = NewSessionService(env.users, env.sessions, env.codec, testHasher, env.events)
	env.guard = NewGuard(env.users, env.sessions, env.codec, testHasher)
	return env
}

func (e *authEnv) signUp(t *testing.T, email string) (string, Identity) {
	t.Helper()
	token, err := e.svc.SignUp(context.Background(), SignUpInput{Name: "Jane Doe", Email: email, Password: "longpass1"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	id, err := e.guard.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate after sign-up: %v", err)
	}
	return token, id
}

func wantKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("error = %v, want apperr %s", err, kind)
	}
	if ae.Kind != kind || (msg != "" && ae.Message != msg) {
		t.Fatalf("error = %s %q, want %s %q", ae.Kind, ae.Message, kind, msg)
	}
}

func TestSignUpCreatesUserAndSession(t *testing.T) {
	env := newAuthEnv()
	token, id := env.signUp(t, "JANE@x.com")

	if id.User.Email != "jane@x.com" {
		t.Fatalf("stored email = %q, want lower-cased", id.User.Email)
	}
	if id.User.Role != model.RoleDefault {
		t.Fatalf("role = %q", id.User.Role)
	}
	if id.User.PasswordHash == "longpass1" || !testHasher.Verify(id.User.PasswordHash, "longpass1") {
		t.Fatal("password must be stored hashed")
	}
	if n := env.sessions.countFor(id.User.ID); n != 1 {
		t.Fatalf("sessions = %d, want 1", n)
	}
	if id.Session.TokenHash == token {
		t.Fatal("raw token must not be stored")
	}
	ttl := id.Session.ExpiresAt.Sub(id.Session.CreatedAt)
	if ttl < utils.SessionTTL-2*time.Second || ttl > utils.SessionTTL+time.Second {
		t.Fatalf("session ttl = %s", ttl)
	}
	if got := env.events.types(); len(got) != 1 || got[0] != queue.EventSessionCreated {
		t.Fatalf("events = %v", got)
	}
}

func TestSignUpDuplicateEmailIsConflict(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "jane@x.com")

	_, err := env.svc.SignUp(context.Background(), SignUpInput{Name: "Other", Email: "  Jane@X.com ", Password: "longpass2"})
	wantKind(t, err, apperr.KindConflict, "Email already registered.")
	if n := len(env.users.byID); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}

func TestSignInOpensNewSession(t *testing.T) {
	env := newAuthEnv()
	_, first := env.signUp(t, "JANE@x.com")

	token, err := env.svc.SignIn(context.Background(), "jane@X.com", "longpass1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	claims, ok := env.codec.Verify(token)
	if !ok {
		t.Fatal("sign-in token does not verify")
	}
	if claims.SessionID == first.Session.ID {
		t.Fatal("sign-in must open a new session")
	}
	if n := env.sessions.countFor(first.User.ID); n != 2 {
		t.Fatalf("sessions = %d, want 2", n)
	}
}

func TestSignInBadCredentialsShareMessage(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "jane@x.com")

	_, err := env.svc.SignIn(context.Background(), "jane@x.com", "wrongpass")
	wantKind(t, err, apperr.KindUnauthorized, "Incorrect email or password.")

	_, err = env.svc.SignIn(context.Background(), "nobody@x.com", "longpass1")
	wantKind(t, err, apperr.KindUnauthorized, "Incorrect email or password.")
}

func TestSignInRejectsAdmins(t *testing.T) {
	env := newAuthEnv()
	hash, err := testHasher.Hash("adminpass1")
	if err != nil {
		t.Fatal(err)
	}
	env.users.put(model.User{ID: "admin-1", Name: "Root", Email: "root@x.com", PasswordHash: hash, Role: model.RoleAdmin})

	for _, pw := range []string{"adminpass1", "wrongpass"} {
		_, err := env.svc.SignIn(context.Background(), "root@x.com", pw)
		wantKind(t, err, apperr.KindForbidden, "Admins are not allowed to sign in.")
	}
	if n := env.sessions.countFor("admin-1"); n != 0 {
		t.Fatalf("admin got %d sessions", n)
	}
}

func TestSignOutRevokesOnlyCurrentSession(t *testing.T) {
	env := newAuthEnv()
	token1, id := env.signUp(t, "jane@x.com")
	token2, err := env.svc.SignIn(context.Background(), "jane@x.com", "longpass1")
	if err != nil {
		t.Fatal(err)
	}

	if err := env.svc.SignOut(context.Background(), id); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	_, err = env.guard.Authenticate(context.Background(), token1)
	wantKind(t, err, apperr.KindUnauthorized, "Session not found.")
	if _, err := env.guard.Authenticate(context.Background(), token2); err != nil {
		t.Fatalf("other session should survive: %v", err)
	}

	last := env.events.events[len(env.events.events)-1]
	if last.Type != queue.EventSessionsRevoked || last.SubjectID != id.Session.ID || last.UserID != id.User.ID {
		t.Fatalf("last event = %+v", last)
	}
}

func TestSignOutAllRevokesEverySession(t *testing.T) {
	env := newAuthEnv()
	token1, id := env.signUp(t, "jane@x.com")
	token2, err := env.svc.SignIn(context.Background(), "jane@x.com", "longpass1")
	if err != nil {
		t.Fatal(err)
	}

	if err := env.svc.SignOutAll(context.Background(), id); err != nil {
		t.Fatalf("SignOutAll: %v", err)
	}
	for _, tok := range []string{token1, token2} {
		_, err := env.guard.Authenticate(context.Background(), tok)
		wantKind(t, err, apperr.KindUnauthorized, "Session not found.")
	}
}

func TestCurrentUserHidesHash(t *testing.T) {
	env := newAuthEnv()
	_, id := env.signUp(t, "jane@x.com")
	pub := env.svc.CurrentUser(id)
	if pub.ID != id.User.ID || pub.Email != "jane@x.com" || pub.Name != "Jane Doe" {
		t.Fatalf("CurrentUser = %+v", pub)
	}
}
