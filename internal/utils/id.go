package utils

import "github.com/google/uuid"

// NewID returns a random (version 4) UUID string used as primary key for
// users, sessions, clients and timesheet entries.
func NewID() string {
	return uuid.NewString()
}
