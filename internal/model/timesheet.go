package model

import (
	"math"
	"time"
)

// Timesheet entry statuses.
const (
	EntryPending  = "pending"
	EntryApproved = "approved"
	EntryRejected = "rejected"
)

// TimesheetEntry represents a row in `timesheet_entries`.  Date is the
// midnight of the working day; StartTime and EndTime fall on that same day
// with whole-minute precision.  TotalHrs is derived from the interval.
type TimesheetEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ClientID    string    `json:"clientId"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	TotalHrs    float64   `json:"totalHrs"`
	Remarks     *string   `json:"remarks"`
	Position    string    `json:"position"`
	SiteAddress string    `json:"siteAddress"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TimesheetRow is an entry joined with its client for listings.  Client is
// nil when the referenced client row no longer exists.
type TimesheetRow struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	TotalHrs    float64   `json:"totalHrs"`
	Remarks     *string   `json:"remarks"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Position    string    `json:"position"`
	SiteAddress string    `json:"siteAddress"`
	Client      *Client   `json:"client"`
}

// HoursBetween returns end-start in hours rounded to two decimals.
func HoursBetween(start, end time.Time) float64 {
	hrs := float64(end.Sub(start).Milliseconds()) / float64(time.Hour.Milliseconds())
	return math.Round(hrs*100) / 100
}
