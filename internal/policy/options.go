// Package policy implements the decorators that wrap a test command with
// repeat, timeout-retry, elapsed-time and expected-error behaviour.
//
// Every policy is itself a command.Command, so policies nest. The outermost
// policy sees the result after every inner policy has applied its own.
// Policies are strictly sequential: one attempt finishes before the next
// one starts, and nothing is shared between attempts except the policy's
// own counter.
package policy

import (
	"time"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

// Observer receives every intermediate attempt a policy makes. The host
// only ever sees the final result; observers exist for logging.
type Observer interface {
	OnAttempt(meta *command.Metadata, policy string, attempt int, res result.Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(meta *command.Metadata, policy string, attempt int, res result.Result)

func (f ObserverFunc) OnAttempt(meta *command.Metadata, policy string, attempt int, res result.Result) {
	f(meta, policy, attempt, res)
}

type options struct {
	observer Observer
	now      func() time.Time
}

// Option configures a policy.
type Option func(*options)

// WithObserver reports each attempt to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) observe(meta *command.Metadata, policy string, attempt int, res result.Result) {
	if o.observer != nil {
		o.observer.OnAttempt(meta, policy, attempt, res)
	}
}
