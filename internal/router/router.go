// Package router wires handlers to paths.  Public routes live at the root;
// the API lives under /api with a general rate limit, and the credential
// endpoints carry a stricter one.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/timesheet-reporting/internal/config"
	"github.com/iliyamo/timesheet-reporting/internal/handler"
	"github.com/iliyamo/timesheet-reporting/internal/middleware"
)

// Deps are the handlers and shared infrastructure the routes need.  Redis
// may be nil, which disables rate limiting.
type Deps struct {
	Guard middleware.Authenticator

	Auth      *handler.AuthHandler
	Clients   *handler.ClientHandler
	Timesheet *handler.TimesheetHandler
	Upload    *handler.UploadHandler
	Reports   *handler.ReportHandler

	Redis         *redis.Client
	RateLimit     config.RateLimitConfig
	AuthRateLimit config.RateLimitConfig
}

// RegisterRoutes registers routes that need no authentication outside the
// API prefix.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers every /api route.
func RegisterAPI(e *echo.Echo, d Deps) *echo.Group {
	api := e.Group("/api", middleware.NewTokenBucket(d.RateLimit, d.Redis))
	registerAuth(api, d)
	registerTimesheet(api, d)
	registerMedia(api, d)
	return api
}
