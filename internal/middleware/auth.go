package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// Authenticator resolves a raw bearer token.  *service.Guard implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (service.Identity, error)
}

// IdentityHandler is a handler for a protected route.  It receives the
// resolved identity as an argument instead of reading it from the context.
type IdentityHandler func(c echo.Context, id service.Identity) error

// BearerToken returns the Authorization header with a leading "Bearer "
// removed and surrounding whitespace trimmed.
func BearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// RequireSession adapts h into an echo handler that authenticates first.
// Guard failures are returned unchanged so the error handler can render
// them.  Middleware in after runs only once the request is authenticated,
// which keeps caches and similar layers from answering anonymous callers.
func RequireSession(a Authenticator, h IdentityHandler, after ...echo.MiddlewareFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := a.Authenticate(c.Request().Context(), BearerToken(c.Request()))
		if err != nil {
			return err
		}
		next := func(c echo.Context) error { return h(c, id) }
		for i := len(after) - 1; i >= 0; i-- {
			next = after[i](next)
		}
		return next(c)
	}
}
