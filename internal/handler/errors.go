package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
)

// ErrorHandler renders every failure as {"error": message}.  Domain errors
// keep their status and message; echo errors keep their status; anything
// else is logged and reported as a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := http.StatusInternalServerError, apperr.FallbackMessage

	var he *echo.HTTPError
	switch ae, ok := apperr.As(err); {
	case ok && ae.Kind != apperr.KindInternal:
		status, msg = ae.Status(), ae.Message
	case ok:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, ae.Cause)
	case errors.As(err, &he):
		status, msg = he.Code, httpErrorMessage(he)
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{"error": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch he.Code {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	}
	if s, ok := he.Message.(string); ok && s != "" {
		return s
	}
	return http.StatusText(he.Code)
}
