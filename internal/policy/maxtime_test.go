package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

func TestMaxTime_SlowSuccessBecomesTimeoutFailure(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), steps: []time.Duration{3 * time.Second}}
	inner := newScripted(result.Success().WithOutput("slept"))

	res := NewMaxTime(inner, time.Second, WithClock(clock.Now)).Execute(context.Background())

	require.True(t, res.IsFailure())
	assert.Equal(t, "Elapsed time of 3000.0ms exceeds maximum of 1000ms", res.Message)
	assert.True(t, IsTimeoutFailure(res))
	assert.Equal(t, "slept", res.Output)
}

func TestMaxTime_FastSuccessPasses(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), steps: []time.Duration{500 * time.Millisecond}}
	inner := newScripted(result.Success())

	res := NewMaxTime(inner, time.Second, WithClock(clock.Now)).Execute(context.Background())

	assert.True(t, res.IsSuccess())
}

func TestMaxTime_FailurePassesThrough(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), steps: []time.Duration{3 * time.Second}}
	inner := newScripted(result.Failure("I failed"))

	res := NewMaxTime(inner, time.Second, WithClock(clock.Now)).Execute(context.Background())

	assert.Equal(t, "I failed", res.Message)
	assert.False(t, IsTimeoutFailure(res))
}

func TestMaxTime_ConstructorLeavesPropertiesAlone(t *testing.T) {
	inner := newScripted(result.Success())
	NewMaxTime(inner, 1500*time.Millisecond)

	_, ok := inner.meta.Property(command.PropertyMaxTime)
	assert.False(t, ok)
	assert.Equal(t, 0, inner.calls)
}

func TestTimeoutRetryAroundMaxTime(t *testing.T) {
	clock := &stepClock{
		now:   time.Unix(0, 0),
		steps: []time.Duration{3 * time.Second, 3 * time.Second, time.Second},
	}
	inner := withMaxTime(newScripted(result.Success()))

	chain := NewTimeoutRetry(NewMaxTime(inner, 2*time.Second, WithClock(clock.Now)), 3)
	res := chain.Execute(context.Background())

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 3, inner.calls)
}

func TestTimeoutRetryAroundMaxTime_LimitReached(t *testing.T) {
	clock := &stepClock{
		now:   time.Unix(0, 0),
		steps: []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second},
	}
	inner := withMaxTime(newScripted(result.Success()))

	chain := NewTimeoutRetry(NewMaxTime(inner, time.Second, WithClock(clock.Now)), 3)
	res := chain.Execute(context.Background())

	assert.True(t, IsTimeoutFailure(res))
	assert.Equal(t, 3, inner.calls)
}
