package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/middleware"
)

// registerAuth mounts /api/auth.  Sign-up and sign-in hash passwords and
// are the brute-force target, so they get their own bucket.
func registerAuth(api *echo.Group, d Deps) {
	g := api.Group("/auth")
	strict := middleware.NewTokenBucket(d.AuthRateLimit, d.Redis)
	g.POST("/sign-up", d.Auth.SignUp, strict)
	g.POST("/sign-in", d.Auth.SignIn, strict)

	g.POST("/sign-out", middleware.RequireSession(d.Guard, d.Auth.SignOut))
	g.POST("/sign-out-all", middleware.RequireSession(d.Guard, d.Auth.SignOutAll))
	g.GET("/current-user", middleware.RequireSession(d.Guard, d.Auth.CurrentUser))
}
