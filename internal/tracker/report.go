package tracker

import (
	"time"

	"github.com/chr1sbest/rerun/internal/result"
)

// Report is the outcome of one suite run, as written to report.json.
type Report struct {
	RunID      string        `json:"run_id"`
	Suite      string        `json:"suite"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
	Summary    Summary       `json:"summary"`
	Tests      []TestRecord  `json:"tests"`
}

// TestRecord is the final result of one test.
type TestRecord struct {
	Name     string         `json:"name"`
	FullName string         `json:"full_name"`
	Outcome  result.Outcome `json:"outcome"`
	Message  string         `json:"message,omitempty"`
	Source   string         `json:"source,omitempty"`
	Output   string         `json:"output,omitempty"`
	Error    string         `json:"error,omitempty"`
	Attempts int            `json:"attempts"`
	Duration time.Duration  `json:"duration_ns"`
}

// Summary counts tests by outcome.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failure int `json:"failure"`
	Invalid int `json:"invalid"`
	Error   int `json:"error"`
}

// Add counts one outcome.
func (s *Summary) Add(o result.Outcome) {
	s.Total++
	switch o {
	case result.OutcomeSuccess:
		s.Success++
	case result.OutcomeFailure:
		s.Failure++
	case result.OutcomeInvalid:
		s.Invalid++
	case result.OutcomeError:
		s.Error++
	}
}

// Passed reports whether every test succeeded.
func (s Summary) Passed() bool {
	return s.Success == s.Total
}

// Add appends rec and updates the summary.
func (r *Report) Add(rec TestRecord) {
	r.Tests = append(r.Tests, rec)
	r.Summary.Add(rec.Outcome)
}

// Passed reports whether every test in the run succeeded.
func (r *Report) Passed() bool {
	return r.Summary.Passed()
}
