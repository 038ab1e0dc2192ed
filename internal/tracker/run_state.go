package tracker

import "time"

// RunState is the in-flight state of a run, rewritten before and after
// every test so an interrupted run can be spotted by the next one.
type RunState struct {
	RunID         string    `json:"run_id"`
	PID           int       `json:"pid"`
	Suite         string    `json:"suite"`
	StartedAt     time.Time `json:"started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CurrentTest   string    `json:"current_test,omitempty"`
	TestStartedAt time.Time `json:"test_started_at,omitempty"`
	Completed     int       `json:"completed"`
	Total         int       `json:"total"`
	Status        string    `json:"status"`
	LastError     string    `json:"last_error,omitempty"`
}

// Run state statuses.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusAborted  = "aborted"
)

// Interrupted reports whether the state was left behind by a run that never
// finished.
func (s *RunState) Interrupted() bool {
	return s != nil && s.Status == RunStatusRunning
}
