package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/repository"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

const (
	msgClientNotFound = "Client not found."
	msgOverlap        = "Selected time overlaps with an existing entry."
)

// NewEntry is a validated add-entry request.  Date, StartTime and EndTime
// are instants; AddEntry pins them to one calendar day in the entry zone.
type NewEntry struct {
	ClientID    string
	Date        time.Time
	StartTime   time.Time
	EndTime     time.Time
	Position    string
	SiteAddress string
	Remarks     *string
}

// TimesheetService records and lists working hours.
type TimesheetService struct {
	clients ClientStore
	entries TimesheetStore
	events  Publisher
	loc     *time.Location

	now   func() time.Time
	newID func() string
}

// NewTimesheetService wires the service.  loc is the zone in which entry
// dates are interpreted; nil means UTC.
func NewTimesheetService(clients ClientStore, entries TimesheetStore, events Publisher, loc *time.Location) *TimesheetService {
	if events == nil {
		events = NopPublisher
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetService{
		clients: clients,
		entries: entries,
		events:  events,
		loc:     loc,
		now:     time.Now,
		newID:   utils.NewID,
	}
}

// Location is the zone entry dates are interpreted in.
func (s *TimesheetService) Location() *time.Location { return s.loc }

// AddEntry stores a new pending entry for userID unless it overlaps one of
// the user's existing entries on the same day.
func (s *TimesheetService) AddEntry(ctx context.Context, userID string, in NewEntry) (model.TimesheetEntry, error) {
	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TimesheetEntry{}, apperr.NotFound(msgClientNotFound)
		}
		return model.TimesheetEntry{}, apperr.Internal(err)
	}

	date, start, end := NormalizeDay(in.Date, in.StartTime, in.EndTime, s.loc)
	if !end.After(start) {
		return model.TimesheetEntry{}, apperr.Validation("End time must be after the start time.")
	}

	now := s.now().UTC()
	e := model.TimesheetEntry{
		ID:          s.newID(),
		UserID:      userID,
		ClientID:    in.ClientID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		TotalHrs:    model.HoursBetween(start, end),
		Remarks:     in.Remarks,
		Position:    in.Position,
		SiteAddress: in.SiteAddress,
		Status:      model.EntryPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.entries.CreateIfNoOverlap(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return model.TimesheetEntry{}, apperr.Conflict(msgOverlap)
		}
		return model.TimesheetEntry{}, apperr.Internal(err)
	}

	ev := queue.Event{
		Type:       queue.EventTimesheetEntryAdded,
		UserID:     userID,
		SubjectID:  e.ID,
		Attrs:      map[string]string{"client_id": e.ClientID, "date": date.In(s.loc).Format(time.DateOnly)},
		OccurredAt: now,
	}
	publishEvent(ctx, s.events, ev)
	return e, nil
}

// List returns every entry of userID with its client, newest day first.
func (s *TimesheetService) List(ctx context.Context, userID string) ([]model.TimesheetRow, error) {
	rows, err := s.entries.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// NormalizeDay pins an entry to one calendar day in loc: the returned date
// is that day's midnight, start and end carry the wall-clock hour and minute
// of the inputs on that same day with seconds dropped.  All three are
// returned in UTC.
func NormalizeDay(date, start, end time.Time, loc *time.Location) (time.Time, time.Time, time.Time) {
	d := date.In(loc)
	y, m, day := d.Date()
	onDay := func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(y, m, day, t.Hour(), t.Minute(), 0, 0, loc).UTC()
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc).UTC(), onDay(start), onDay(end)
}
