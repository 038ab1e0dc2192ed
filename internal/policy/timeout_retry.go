package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

const timeoutRetrySource = "TimeoutRetry.Execute"

// ErrMaxTimeRequired is the configuration fault reported when TimeoutRetry
// runs without an elapsed-time limit on the unit or its parent.
var ErrMaxTimeRequired = errors.New(command.PropertyMaxTime + " must be set along with TimeoutRetry")

// ConfigError is a policy configuration fault. It is raised before any
// attempt runs and is never retried.
type ConfigError struct {
	Policy string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Policy, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TimeoutRetry re-runs the inner command only while it fails with the
// elapsed-time signature, up to maxAttempts executions in total.
type TimeoutRetry struct {
	command.Decorator
	maxAttempts int
	opts        options
}

// NewTimeoutRetry wraps inner.
func NewTimeoutRetry(inner command.Command, maxAttempts int, opts ...Option) *TimeoutRetry {
	return &TimeoutRetry{
		Decorator:   command.NewDecorator(inner),
		maxAttempts: maxAttempts,
		opts:        buildOptions(opts),
	}
}

func (r *TimeoutRetry) String() string {
	return fmt.Sprintf("TimeoutRetry(%d)", r.maxAttempts)
}

// Execute returns the last attempt's result unmodified. Successes,
// non-timeout failures and raised errors end the loop immediately.
func (r *TimeoutRetry) Execute(ctx context.Context) result.Result {
	meta := r.Metadata()
	if _, ok := command.FindProperty(meta, command.PropertyMaxTime); !ok {
		return result.Raised(&ConfigError{Policy: "TimeoutRetry", Err: ErrMaxTimeRequired}).WithSource(timeoutRetrySource)
	}
	if r.maxAttempts <= 0 {
		return result.Invalid(MessageNotExecuted).WithSource(timeoutRetrySource)
	}

	// res is replaced, never edited, on each attempt.
	var res result.Result
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		res = r.Inner().Execute(ctx)
		r.opts.observe(meta, r.String(), attempt, res)

		if !IsTimeoutFailure(res) {
			break
		}
	}
	return res
}
