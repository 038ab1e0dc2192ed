package tracker

import "github.com/google/uuid"

// NewRunID returns a random identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}
