package policy

import (
	"context"
	"fmt"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

const expectErrorSource = "ExpectError.Execute"

// ExpectError runs the inner command once and passes only if it raised an
// error of the expected category.
type ExpectError struct {
	command.Decorator
	expected Category
	opts     options
}

// NewExpectError wraps inner.
func NewExpectError(inner command.Command, expected Category, opts ...Option) *ExpectError {
	return &ExpectError{
		Decorator: command.NewDecorator(inner),
		expected:  expected,
		opts:      buildOptions(opts),
	}
}

func (e *ExpectError) String() string {
	return fmt.Sprintf("ExpectError(%s)", e.expected)
}

// Execute classifies what the single attempt raised:
//
//	nothing raised          -> Failure "Expected X but no exception was thrown"
//	raised X                -> Success
//	raised C, C != X        -> Failure "Expected X but got C"
func (e *ExpectError) Execute(ctx context.Context) result.Result {
	res := e.Inner().Execute(ctx)
	e.opts.observe(e.Metadata(), e.String(), 1, res)

	var out result.Result
	caught := raisedError(res)
	switch {
	case caught == nil:
		out = result.Failure(fmt.Sprintf("Expected %s but no exception was thrown", e.expected))
	case CategoryOf(caught) == e.expected:
		out = result.Success()
	default:
		out = result.Failure(fmt.Sprintf("Expected %s but got %s", e.expected, CategoryOf(caught)))
	}
	return out.WithSource(expectErrorSource).WithOutput(res.Output)
}

// raisedError returns the error an attempt raised, looking through one
// level of panic wrapping to reach the underlying error.
func raisedError(res result.Result) error {
	if res.Err == nil {
		return nil
	}
	if pe, ok := res.Err.(*command.PanicError); ok {
		if inner := pe.Unwrap(); inner != nil {
			return inner
		}
	}
	return res.Err
}
