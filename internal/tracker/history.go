package tracker

import (
	"sort"
	"time"

	"github.com/chr1sbest/rerun/internal/result"
)

// History accumulates per-test results across runs in history.json. It is
// how flaky tests show up: a test that keeps needing more than one attempt
// has a growing Retried count.
type History struct {
	UpdatedAt time.Time               `json:"updated_at"`
	Runs      int                     `json:"runs"`
	LastRunID string                  `json:"last_run_id,omitempty"`
	Tests     map[string]*TestHistory `json:"tests"`
}

// TestHistory is the running tally for one test, keyed by full name.
type TestHistory struct {
	Runs        int            `json:"runs"`
	Successes   int            `json:"successes"`
	Retried     int            `json:"retried"`
	LastOutcome result.Outcome `json:"last_outcome"`
	LastSeen    time.Time      `json:"last_seen"`
}

// Flaky reports whether the test has ever passed only after a retry.
func (h *TestHistory) Flaky() bool {
	return h.Retried > 0
}

// LoadHistory reads history.json. A missing or corrupt file reads as empty
// history.
func (w *Writer) LoadHistory() (*History, error) {
	var h History
	ok, err := readJSON(w.HistoryPath, &h)
	if !ok && err != nil && !isCorrupt(err) {
		return nil, err
	}
	if h.Tests == nil {
		h.Tests = make(map[string]*TestHistory)
	}
	return &h, nil
}

// RecordRun folds a finished report into history.json.
func (w *Writer) RecordRun(r *Report) (*History, error) {
	h, err := w.LoadHistory()
	if err != nil {
		return nil, err
	}

	h.Runs++
	h.LastRunID = r.RunID
	h.UpdatedAt = r.FinishedAt
	for _, rec := range r.Tests {
		th, ok := h.Tests[rec.FullName]
		if !ok {
			th = &TestHistory{}
			h.Tests[rec.FullName] = th
		}
		th.Runs++
		if rec.Outcome == result.OutcomeSuccess {
			th.Successes++
			if rec.Attempts > 1 {
				th.Retried++
			}
		}
		th.LastOutcome = rec.Outcome
		th.LastSeen = r.FinishedAt
	}

	if err := writeJSONAtomic(w.HistoryPath, h); err != nil {
		return nil, err
	}
	return h, nil
}

// FlakyTests returns the names of tests that have needed a retry to pass,
// sorted.
func (h *History) FlakyTests() []string {
	var names []string
	for name, th := range h.Tests {
		if th.Flaky() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
