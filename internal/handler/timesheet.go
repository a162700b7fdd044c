package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// Timesheets is the timesheet service used by TimesheetHandler.
type Timesheets interface {
	AddEntry(ctx context.Context, userID string, in service.NewEntry) (model.TimesheetEntry, error)
	List(ctx context.Context, userID string) ([]model.TimesheetRow, error)
	Export(ctx context.Context, userID string) ([]byte, error)
	Location() *time.Location
}

// TimesheetHandler serves /timesheet.
type TimesheetHandler struct {
	Timesheets Timesheets
	now        func() time.Time
}

func NewTimesheetHandler(t Timesheets) *TimesheetHandler {
	return &TimesheetHandler{Timesheets: t, now: time.Now}
}

type addEntryReq struct {
	Client      string  `json:"client" validate:"required,notblank"`
	Position    string  `json:"position" validate:"required,notblank"`
	Date        string  `json:"date" validate:"required,notblank,rfc3339"`
	StartTime   string  `json:"startTime" validate:"required,notblank,rfc3339"`
	EndTime     string  `json:"endTime" validate:"required,notblank,rfc3339"`
	SiteAddress string  `json:"siteAddress" validate:"required,notblank"`
	Remarks     *string `json:"remarks"`
}

// check applies the rules that span fields and parses the request into a
// service.NewEntry.  Same-day checks use loc's calendar.
func (r addEntryReq) check(now time.Time, loc *time.Location) (service.NewEntry, error) {
	date, err := parseInstant("date", r.Date)
	if err != nil {
		return service.NewEntry{}, err
	}
	start, err := parseInstant("startTime", r.StartTime)
	if err != nil {
		return service.NewEntry{}, err
	}
	end, err := parseInstant("endTime", r.EndTime)
	if err != nil {
		return service.NewEntry{}, err
	}

	switch {
	case date.After(now):
		return service.NewEntry{}, apperr.Validation("Date cannot be in the future.")
	case start.After(now):
		return service.NewEntry{}, apperr.Validation("Start time cannot be in the future.")
	case end.After(now):
		return service.NewEntry{}, apperr.Validation("End time cannot be in the future.")
	case !end.After(start):
		return service.NewEntry{}, apperr.Validation("End time must be after the start time.")
	case !sameDay(date, start, loc):
		return service.NewEntry{}, apperr.Validation("Start time must be on the selected date.")
	case !sameDay(date, end, loc):
		return service.NewEntry{}, apperr.Validation("End time must be on the selected date.")
	case end.Sub(start) < time.Minute:
		return service.NewEntry{}, apperr.Validation("End time must be at least 1 minute after start time.")
	case end.Sub(start) > 24*time.Hour:
		return service.NewEntry{}, apperr.Validation("Time entry cannot exceed 24 hours.")
	}

	in := service.NewEntry{
		ClientID:    strings.TrimSpace(r.Client),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Position:    strings.TrimSpace(r.Position),
		SiteAddress: strings.TrimSpace(r.SiteAddress),
	}
	if r.Remarks != nil {
		s := strings.TrimSpace(*r.Remarks)
		in.Remarks = &s
	}
	return in, nil
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// List returns the caller's entries, newest day first.
func (h *TimesheetHandler) List(c echo.Context, id service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Timesheets.List(ctx, id.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// AddEntry records a new pending entry for the caller.
func (h *TimesheetHandler) AddEntry(c echo.Context, id service.Identity) error {
	var req addEntryReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.check(h.now(), h.Timesheets.Location())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Timesheets.AddEntry(ctx, id.User.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// Export streams the caller's entries as an xlsx workbook.
func (h *TimesheetHandler) Export(c echo.Context, id service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	data, err := h.Timesheets.Export(ctx, id.User.ID)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("timesheet-%s.xlsx", h.now().In(h.Timesheets.Location()).Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
