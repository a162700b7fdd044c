package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/middleware"
)

// registerMedia mounts /api/upload and /api/reports.
func registerMedia(api *echo.Group, d Deps) {
	up := api.Group("/upload")
	up.POST("/image", middleware.RequireSession(d.Guard, d.Upload.Image))
	up.POST("/delete-assets", middleware.RequireSession(d.Guard, d.Upload.DeleteAssets))

	api.POST("/reports/generate", middleware.RequireSession(d.Guard, d.Reports.Generate))
}
