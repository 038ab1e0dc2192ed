package policy

import (
	"context"
	"fmt"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

const (
	repeatSource = "RepeatUntilSuccess.Execute"

	// MessageAllRepetitionsFailed replaces the last attempt's message when
	// every repetition failed.
	MessageAllRepetitionsFailed = "All repetitions failed."

	// MessageNotExecuted is reported when a policy was configured with no
	// attempts at all.
	MessageNotExecuted = "Could not execute test."
)

// RepeatUntilSuccess runs the inner command up to maxAttempts times and
// stops at the first success.
type RepeatUntilSuccess struct {
	command.Decorator
	maxAttempts int
	opts        options
}

// NewRepeatUntilSuccess wraps inner. A maxAttempts of zero is allowed and
// yields an Invalid result without running anything.
func NewRepeatUntilSuccess(inner command.Command, maxAttempts int, opts ...Option) *RepeatUntilSuccess {
	return &RepeatUntilSuccess{
		Decorator:   command.NewDecorator(inner),
		maxAttempts: maxAttempts,
		opts:        buildOptions(opts),
	}
}

func (r *RepeatUntilSuccess) String() string {
	return fmt.Sprintf("RepeatUntilSuccess(%d)", r.maxAttempts)
}

// Execute returns the first successful attempt. If every attempt fails the
// last attempt is discarded and an aggregate Failure is returned instead.
func (r *RepeatUntilSuccess) Execute(ctx context.Context) result.Result {
	var last result.Result
	executed := 0

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		last = r.Inner().Execute(ctx)
		executed++
		r.opts.observe(r.Metadata(), r.String(), attempt, last)

		if last.IsSuccess() {
			return last
		}
	}

	if executed == 0 {
		return result.Invalid(MessageNotExecuted).WithSource(repeatSource)
	}
	return result.Failure(MessageAllRepetitionsFailed).WithSource(repeatSource)
}
