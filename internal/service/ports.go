// Package service holds the business logic behind the HTTP handlers:
// sign-up/sign-in/sign-out, the request guard that resolves a bearer token
// into a user and session, timesheet entry creation, media uploads and
// report generation.  Services depend on the narrow interfaces below; the
// repository package provides the MySQL implementations.
package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// SessionStore persists sessions and supports revocation by id or by user.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetForUser(ctx context.Context, id, userID string) (model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// ClientStore reads client reference data.
type ClientStore interface {
	ListByName(ctx context.Context) ([]model.Client, error)
	GetByID(ctx context.Context, id string) (model.Client, error)
}

// TimesheetStore persists timesheet entries.
type TimesheetStore interface {
	CreateIfNoOverlap(ctx context.Context, e *model.TimesheetEntry) error
	ListForUser(ctx context.Context, userID string) ([]model.TimesheetRow, error)
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(userID, sessionID, role string) (string, time.Time, error)
	Verify(raw string) (utils.Claims, bool)
}

// SecretHasher is a memory-hard one-way hash for passwords and tokens.
type SecretHasher interface {
	Hash(plain string) (string, error)
	Verify(encoded, plain string) bool
}

// Publisher delivers domain events.  Publishing is best effort: services
// log a failure and carry on.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.Event) error { return nil }

// NopPublisher discards every event.
var NopPublisher Publisher = nopPublisher{}

// publishEvent sends ev and logs a failure instead of returning it.
func publishEvent(ctx context.Context, p Publisher, ev queue.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warnf("publish %s: %v", ev.Type, err)
	}
}
