package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

func withMaxTime(s *scripted) *scripted {
	s.meta.SetProperty(command.PropertyMaxTime, "1000")
	return s
}

func TestTimeoutRetry_RetriesTimeoutsUntilSuccess(t *testing.T) {
	inner := withMaxTime(newScripted(result.Failure(timeoutMsg), result.Failure(timeoutMsg), result.Success()))

	res := NewTimeoutRetry(inner, 3).Execute(context.Background())

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 3, inner.calls)
}

func TestTimeoutRetry_ExhaustedReportsLastAttemptVerbatim(t *testing.T) {
	last := result.Failure("Elapsed time of 3001.7ms exceeds maximum of 1000ms").WithSource("MaxTime.Execute")
	inner := withMaxTime(newScripted(result.Failure(timeoutMsg), result.Failure(timeoutMsg), last))

	res := NewTimeoutRetry(inner, 3).Execute(context.Background())

	assert.Equal(t, last, res)
	assert.Equal(t, 3, inner.calls)
}

func TestTimeoutRetry_NonTimeoutFailureStopsImmediately(t *testing.T) {
	inner := withMaxTime(newScripted(result.Failure("I failed"), result.Success()))

	res := NewTimeoutRetry(inner, 10).Execute(context.Background())

	assert.True(t, res.IsFailure())
	assert.Equal(t, "I failed", res.Message)
	assert.Equal(t, 1, inner.calls)
}

func TestTimeoutRetry_RaisedErrorStopsImmediately(t *testing.T) {
	cause := errors.New("Exception thrown")
	inner := withMaxTime(newScripted(result.Raised(cause), result.Success()))

	res := NewTimeoutRetry(inner, 2).Execute(context.Background())

	assert.True(t, res.IsError())
	assert.Same(t, cause, res.Err)
	assert.Equal(t, 1, inner.calls)
}

func TestTimeoutRetry_SuccessFirstTime(t *testing.T) {
	inner := withMaxTime(newScripted(result.Success()))

	res := NewTimeoutRetry(inner, 5).Execute(context.Background())

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, inner.calls)
}

func TestTimeoutRetry_MissingMaxTimeIsConfigError(t *testing.T) {
	inner := newScripted(result.Success())

	res := NewTimeoutRetry(inner, 3).Execute(context.Background())

	require.True(t, res.IsError())
	var cfgErr *ConfigError
	require.ErrorAs(t, res.Err, &cfgErr)
	assert.ErrorIs(t, res.Err, ErrMaxTimeRequired)
	assert.Equal(t, 0, inner.calls)
}

func TestTimeoutRetry_ParentGroupSatisfiesPrecondition(t *testing.T) {
	inner := newScripted(result.Success())
	inner.meta.Parent.SetProperty(command.PropertyMaxTime, "2000")

	res := NewTimeoutRetry(inner, 3).Execute(context.Background())

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, inner.calls)
}

func TestTimeoutRetry_GrandparentDoesNotSatisfyPrecondition(t *testing.T) {
	inner := newScripted(result.Success())
	root := command.NewGroup("root")
	root.SetProperty(command.PropertyMaxTime, "2000")
	inner.meta.Parent.Parent = root

	res := NewTimeoutRetry(inner, 3).Execute(context.Background())

	assert.True(t, res.IsError())
	assert.Equal(t, 0, inner.calls)
}

func TestTimeoutRetry_ZeroAttempts(t *testing.T) {
	inner := withMaxTime(newScripted(result.Success()))

	res := NewTimeoutRetry(inner, 0).Execute(context.Background())

	assert.True(t, res.IsInvalid())
	assert.Equal(t, 0, inner.calls)
}

func TestTimeoutSignature(t *testing.T) {
	tests := []struct {
		msg   string
		match bool
	}{
		{timeoutMsg, true},
		{"Elapsed time of 3,000.5ms exceeds maximum of 1000ms", true},
		{"Elapsed time of 12ms exceeds maximum of 10ms", true},
		{"Elapsed time of 3000.0 ms exceeds maximum of 1000ms", false},
		{"Elapsed time of 3000ms exceeds maximum of 1.5ms", false},
		{"I failed", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, IsTimeoutMessage(tt.msg), tt.msg)
	}

	assert.False(t, IsTimeoutFailure(result.Raised(errors.New(timeoutMsg))), "only Failure outcomes count")
	assert.True(t, IsTimeoutFailure(result.Failure(timeoutMsg)))
}
