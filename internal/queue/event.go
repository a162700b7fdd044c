// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into the activity log.
package queue

import "time"

// ActivityQueue is the durable queue every domain event is published to.
const ActivityQueue = "timesheet.activity"

// Event types.
const (
	EventSessionCreated      = "session.created"
	EventSessionsRevoked     = "session.revoked"
	EventTimesheetEntryAdded = "timesheet.entry_added"
	EventReportGenerated     = "report.generated"
	EventAssetsDeleted       = "assets.deleted"
)

// Event is published after a state change has been committed.  It carries
// enough context for downstream consumers to log or notify without querying
// the primary database.
type Event struct {
	Type       string            `json:"type"`
	UserID     string            `json:"user_id"`
	SubjectID  string            `json:"subject_id,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
