package tracker

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/chr1sbest/rerun/internal/result"
)

// Change classifies how a test moved between two reports.
type Change string

const (
	ChangeFixed     Change = "fixed"
	ChangeRegressed Change = "regressed"
	ChangeAdded     Change = "added"
	ChangeRemoved   Change = "removed"
	ChangeSame      Change = "same"
)

// TestDiff is one row of a report comparison.
type TestDiff struct {
	FullName string
	Before   result.Outcome
	After    result.Outcome
	Change   Change
	// DurationDelta is After minus Before; zero when either side is missing.
	DurationDelta time.Duration
}

// Comparison is the per-test difference between a baseline and a newer run.
type Comparison struct {
	Baseline *Report
	Current  *Report
	Tests    []TestDiff
}

// LoadReportFile reads a report from an arbitrary path.
func LoadReportFile(path string) (*Report, error) {
	var r Report
	ok, err := readJSON(path, &r)
	if !ok {
		if err == nil {
			err = fmt.Errorf("report %s: %w", path, os.ErrNotExist)
		}
		return nil, err
	}
	return &r, nil
}

// Compare matches tests by full name. Rows are sorted by name.
func Compare(baseline, current *Report) *Comparison {
	before := make(map[string]TestRecord, len(baseline.Tests))
	for _, rec := range baseline.Tests {
		before[rec.FullName] = rec
	}

	c := &Comparison{Baseline: baseline, Current: current}
	seen := make(map[string]bool, len(current.Tests))
	for _, rec := range current.Tests {
		seen[rec.FullName] = true
		old, ok := before[rec.FullName]
		if !ok {
			c.Tests = append(c.Tests, TestDiff{FullName: rec.FullName, After: rec.Outcome, Change: ChangeAdded})
			continue
		}
		c.Tests = append(c.Tests, TestDiff{
			FullName:      rec.FullName,
			Before:        old.Outcome,
			After:         rec.Outcome,
			Change:        classify(old.Outcome, rec.Outcome),
			DurationDelta: rec.Duration - old.Duration,
		})
	}
	for name, old := range before {
		if !seen[name] {
			c.Tests = append(c.Tests, TestDiff{FullName: name, Before: old.Outcome, Change: ChangeRemoved})
		}
	}

	sort.Slice(c.Tests, func(i, j int) bool { return c.Tests[i].FullName < c.Tests[j].FullName })
	return c
}

func classify(before, after result.Outcome) Change {
	passedBefore := before == result.OutcomeSuccess
	passedAfter := after == result.OutcomeSuccess
	switch {
	case !passedBefore && passedAfter:
		return ChangeFixed
	case passedBefore && !passedAfter:
		return ChangeRegressed
	}
	return ChangeSame
}

// Regressions returns the tests that passed in the baseline and no longer do.
func (c *Comparison) Regressions() []TestDiff {
	var out []TestDiff
	for _, d := range c.Tests {
		if d.Change == ChangeRegressed {
			out = append(out, d)
		}
	}
	return out
}

// DurationChange describes how the total run time moved, e.g. "-12.50%".
// Changes within 1% read as "same".
func (c *Comparison) DurationChange() string {
	before, after := c.Baseline.Duration, c.Current.Duration
	if before == 0 {
		return "n/a"
	}
	pct := float64(after-before) / float64(before) * 100
	if pct > -1 && pct < 1 {
		return "same"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}
