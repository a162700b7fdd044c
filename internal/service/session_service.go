package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/repository"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

const (
	msgEmailTaken        = "Email already registered."
	msgBadCredentials    = "Incorrect email or password."
	msgAdminSignInDenied = "Admins are not allowed to sign in."
)

// SignUpInput carries the validated sign-up payload.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SessionService owns the account lifecycle: registration, sign-in and
// revocation of sessions.
type SessionService struct {
	users    UserStore
	sessions SessionStore
	codec    TokenCodec
	hasher   SecretHasher
	events   Publisher

	now   func() time.Time
	newID func() string

	// dummyHash is verified against when the email is unknown so that the
	// response time does not reveal whether an account exists.
	dummyOnce sync.Once
	dummyHash string
}

// NewSessionService wires the service.  A nil publisher disables events.
func NewSessionService(users UserStore, sessions SessionStore, codec TokenCodec, hasher SecretHasher, events Publisher) *SessionService {
	if events == nil {
		events = NopPublisher
	}
	return &SessionService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		hasher:   hasher,
		events:   events,
		now:      time.Now,
		newID:    utils.NewID,
	}
}

// SignUp registers a new default-role user and opens a first session for
// it.  The raw token is returned once and cannot be recovered later.
func (s *SessionService) SignUp(ctx context.Context, in SignUpInput) (string, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", apperr.Internal(err)
	}
	now := s.now().UTC()
	u := model.User{
		ID:           s.newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.Conflict(msgEmailTaken)
		}
		return "", apperr.Internal(err)
	}
	return s.openSession(ctx, u)
}

// SignIn checks credentials and opens a new session.  Unknown emails and
// wrong passwords produce the same error.  Admin accounts are always
// rejected with Forbidden; the password is still verified first so the
// timing is the same for every existing account.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		s.hasher.Verify(s.dummy(), password)
		return "", apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return "", apperr.Internal(err)
	}

	ok := s.hasher.Verify(u.PasswordHash, password)
	if u.IsAdmin() {
		return "", apperr.Forbidden(msgAdminSignInDenied)
	}
	if !ok {
		return "", apperr.Unauthorized(msgBadCredentials)
	}
	return s.openSession(ctx, u)
}

// SignOut deletes exactly the given session.
func (s *SessionService) SignOut(ctx context.Context, id Identity) error {
	if err := s.sessions.Delete(ctx, id.Session.ID); err != nil {
		return apperr.Internal(err)
	}
	s.publish(ctx, queue.Event{
		Type:      queue.EventSessionsRevoked,
		UserID:    id.User.ID,
		SubjectID: id.Session.ID,
	})
	return nil
}

// SignOutAll deletes every session owned by the identity's user, including
// the one used to make the request.
func (s *SessionService) SignOutAll(ctx context.Context, id Identity) error {
	if err := s.sessions.DeleteAllForUser(ctx, id.User.ID); err != nil {
		return apperr.Internal(err)
	}
	s.publish(ctx, queue.Event{
		Type:   queue.EventSessionsRevoked,
		UserID: id.User.ID,
	})
	return nil
}

// CurrentUser returns the identity's user without its password hash.
func (s *SessionService) CurrentUser(id Identity) model.PublicUser {
	return id.User.Public()
}

// openSession issues a token for u, stores its hash as a new session row and
// returns the raw token.
func (s *SessionService) openSession(ctx context.Context, u model.User) (string, error) {
	sid := s.newID()
	token, exp, err := s.codec.Issue(u.ID, sid, u.Role)
	if err != nil {
		return "", apperr.Internal(err)
	}
	tokenHash, err := s.hasher.Hash(token)
	if err != nil {
		return "", apperr.Internal(err)
	}
	now := s.now().UTC()
	sess := model.Session{
		ID:        sid,
		UserID:    u.ID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, &sess); err != nil {
		return "", apperr.Internal(err)
	}
	s.publish(ctx, queue.Event{
		Type:      queue.EventSessionCreated,
		UserID:    u.ID,
		SubjectID: sid,
	})
	return token, nil
}

func (s *SessionService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equalizer")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func (s *SessionService) publish(ctx context.Context, ev queue.Event) {
	ev.OccurredAt = s.now().UTC()
	publishEvent(ctx, s.events, ev)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
