package command

import (
	"context"

	"github.com/chr1sbest/rerun/internal/result"
)

// Decorator is the base for policies. It owns one inner command, forwards
// identity queries to it and, unless overridden, delegates Execute to it
// unchanged. Building a Decorator never runs the inner command.
type Decorator struct {
	inner Command
}

// NewDecorator wraps inner. It panics if inner is nil.
func NewDecorator(inner Command) Decorator {
	if inner == nil {
		panic("command: nil inner command")
	}
	return Decorator{inner: inner}
}

// Inner returns the wrapped command.
func (d *Decorator) Inner() Command { return d.inner }

// Metadata returns the wrapped unit's identity.
func (d *Decorator) Metadata() *Metadata { return d.inner.Metadata() }

// Execute runs the inner command and returns its result as is.
func (d *Decorator) Execute(ctx context.Context) result.Result {
	return d.inner.Execute(ctx)
}

// Wrapper is implemented by commands that wrap another command.
type Wrapper interface {
	Inner() Command
}

// Base returns the innermost command of a chain.
func Base(cmd Command) Command {
	for {
		w, ok := cmd.(Wrapper)
		if !ok {
			return cmd
		}
		cmd = w.Inner()
	}
}

// Chain lists the commands of a chain, outermost first.
func Chain(cmd Command) []Command {
	var chain []Command
	for cmd != nil {
		chain = append(chain, cmd)
		w, ok := cmd.(Wrapper)
		if !ok {
			break
		}
		cmd = w.Inner()
	}
	return chain
}
