package result

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome classifies the result of executing a test unit.
type Outcome int

const (
	// OutcomeSuccess indicates the unit ran and passed.
	OutcomeSuccess Outcome = iota

	// OutcomeFailure indicates an assertion-level mismatch. It is expected and recoverable.
	OutcomeFailure

	// OutcomeInvalid indicates the unit or a policy could not run meaningfully
	// (for example, zero configured attempts).
	OutcomeInvalid

	// OutcomeError indicates the unit raised an error, or a policy hit a configuration fault.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseOutcome converts the String form back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return OutcomeSuccess, nil
	case "failure":
		return OutcomeFailure, nil
	case "invalid":
		return OutcomeInvalid, nil
	case "error":
		return OutcomeError, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Result is the outcome record of one execution. Treat it as a value: a
// policy that wants a different outcome builds a new Result instead of
// editing one it received.
type Result struct {
	Outcome Outcome

	// Message is required when Outcome is not Success.
	Message string

	// Source names the unit or policy that produced the outcome.
	Source string

	// Err is the error raised by the test body, if any. It is what
	// expected-error classification inspects.
	Err error

	// Output holds diagnostic text logged during the attempt.
	Output string
}

// Success returns a passing result.
func Success() Result {
	return Result{Outcome: OutcomeSuccess}
}

// Failure returns an assertion-level failure.
func Failure(message string) Result {
	return Result{Outcome: OutcomeFailure, Message: message}
}

// Invalid returns a result for a unit that could not be run meaningfully.
func Invalid(message string) Result {
	return Result{Outcome: OutcomeInvalid, Message: message}
}

// Error returns an error result without an attached cause.
func Error(message string) Result {
	return Result{Outcome: OutcomeError, Message: message}
}

// Raised returns an error result for err raised during execution.
func Raised(err error) Result {
	if err == nil {
		return Error("nil error raised")
	}
	return Result{Outcome: OutcomeError, Message: err.Error(), Err: err}
}

// Asserter is implemented by errors produced by assertion helpers. They are
// reported as Failure instead of Error.
type Asserter interface {
	error
	Assertion() bool
}

// FromError classifies err into a result. A nil error is Success, an
// assertion error is Failure, and anything else is Error. The error is kept
// on the result in every non-success case.
func FromError(err error) Result {
	if err == nil {
		return Success()
	}
	var a Asserter
	if errors.As(err, &a) && a.Assertion() {
		return Result{Outcome: OutcomeFailure, Message: err.Error(), Err: err}
	}
	return Raised(err)
}

// WithSource returns a copy of r attributed to source.
func (r Result) WithSource(source string) Result {
	r.Source = source
	return r
}

// WithOutput returns a copy of r carrying output.
func (r Result) WithOutput(output string) Result {
	r.Output = output
	return r
}

func (r Result) IsSuccess() bool { return r.Outcome == OutcomeSuccess }
func (r Result) IsFailure() bool { return r.Outcome == OutcomeFailure }
func (r Result) IsInvalid() bool { return r.Outcome == OutcomeInvalid }
func (r Result) IsError() bool   { return r.Outcome == OutcomeError }

func (r Result) String() string {
	if r.Message == "" {
		return r.Outcome.String()
	}
	return fmt.Sprintf("%s: %s", r.Outcome, r.Message)
}
