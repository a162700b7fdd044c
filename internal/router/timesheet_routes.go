package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/middleware"
)

// registerTimesheet mounts /api/clients and /api/timesheet.
func registerTimesheet(api *echo.Group, d Deps) {
	api.GET("/clients", middleware.RequireSession(d.Guard, d.Clients.List))

	g := api.Group("/timesheet")
	g.GET("", middleware.RequireSession(d.Guard, d.Timesheet.List))
	g.POST("/add-entry", middleware.RequireSession(d.Guard, d.Timesheet.AddEntry))
	g.GET("/export", middleware.RequireSession(d.Guard, d.Timesheet.Export))
}
