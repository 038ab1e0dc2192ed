package policy

import (
	"context"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

// scripted replays a fixed list of results, repeating the last one.
type scripted struct {
	meta    *command.Metadata
	results []result.Result
	calls   int
}

func newScripted(results ...result.Result) *scripted {
	meta := command.NewMetadata("scripted", command.NewGroup("suite"))
	return &scripted{meta: meta, results: results}
}

func (s *scripted) Metadata() *command.Metadata { return s.meta }

func (s *scripted) Execute(ctx context.Context) result.Result {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i]
}

func failures(n int, msg string) []result.Result {
	out := make([]result.Result, n)
	for i := range out {
		out[i] = result.Failure(msg)
	}
	return out
}

// stepClock advances by the next duration in steps every second call, so
// each Start/End pair around an attempt spans one step.
type stepClock struct {
	now   time.Time
	steps []time.Duration
	calls int
}

func (c *stepClock) Now() time.Time {
	if c.calls%2 == 1 {
		i := c.calls / 2
		if i < len(c.steps) {
			c.now = c.now.Add(c.steps[i])
		}
	}
	c.calls++
	return c.now
}

type recorder struct {
	attempts []int
	policies []string
}

func (r *recorder) OnAttempt(meta *command.Metadata, policy string, attempt int, res result.Result) {
	r.attempts = append(r.attempts, attempt)
	r.policies = append(r.policies, policy)
}

const timeoutMsg = "Elapsed time of 3000.0ms exceeds maximum of 1000ms"
