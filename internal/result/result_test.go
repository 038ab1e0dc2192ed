package result

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assertErr struct{ msg string }

func (e *assertErr) Error() string   { return e.msg }
func (e *assertErr) Assertion() bool { return true }

func TestFactories(t *testing.T) {
	tests := []struct {
		name    string
		res     Result
		outcome Outcome
		message string
	}{
		{"success", Success(), OutcomeSuccess, ""},
		{"failure", Failure("boom"), OutcomeFailure, "boom"},
		{"invalid", Invalid("Could not execute test."), OutcomeInvalid, "Could not execute test."},
		{"error", Error("bad config"), OutcomeError, "bad config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outcome, tt.res.Outcome)
			assert.Equal(t, tt.message, tt.res.Message)
			assert.Nil(t, tt.res.Err)
		})
	}
}

func TestRaised(t *testing.T) {
	cause := errors.New("disk on fire")
	res := Raised(cause)

	assert.True(t, res.IsError())
	assert.Equal(t, "disk on fire", res.Message)
	assert.Same(t, cause, res.Err)

	assert.True(t, Raised(nil).IsError())
}

func TestFromError(t *testing.T) {
	assert.True(t, FromError(nil).IsSuccess())

	res := FromError(&assertErr{msg: "expected 1 but was 2"})
	assert.True(t, res.IsFailure())
	assert.Equal(t, "expected 1 but was 2", res.Message)
	require.Error(t, res.Err)

	wrapped := fmt.Errorf("step: %w", &assertErr{msg: "nope"})
	assert.True(t, FromError(wrapped).IsFailure())

	assert.True(t, FromError(errors.New("plain")).IsError())
}

func TestWithSourceDoesNotMutate(t *testing.T) {
	orig := Failure("x")
	tagged := orig.WithSource("RepeatUntilSuccess.Execute")

	assert.Empty(t, orig.Source)
	assert.Equal(t, "RepeatUntilSuccess.Execute", tagged.Source)
	assert.Equal(t, orig.Message, tagged.Message)
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{OutcomeSuccess, OutcomeFailure, OutcomeInvalid, OutcomeError} {
		b, err := o.MarshalText()
		require.NoError(t, err)

		var back Outcome
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, o, back)
	}

	_, err := ParseOutcome("flaky")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", Success().String())
	assert.Equal(t, "failure: All repetitions failed.", Failure("All repetitions failed.").String())
}
