package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chr1sbest/rerun/internal/result"
)

func TestFuncExecute(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name    string
		body    Body
		outcome result.Outcome
		message string
	}{
		{
			name:    "nil return passes",
			body:    func(ctx context.Context, t *T) error { return nil },
			outcome: result.OutcomeSuccess,
		},
		{
			name:    "assertion fails",
			body:    func(ctx context.Context, t *T) error { return Failf("expected %d but was %d", 1, 2) },
			outcome: result.OutcomeFailure,
			message: "expected 1 but was 2",
		},
		{
			name:    "fatalf fails",
			body:    func(ctx context.Context, t *T) error { t.Fatalf("stop here"); return nil },
			outcome: result.OutcomeFailure,
			message: "stop here",
		},
		{
			name:    "other error is raised",
			body:    func(ctx context.Context, t *T) error { return cause },
			outcome: result.OutcomeError,
			message: "connection reset",
		},
		{
			name:    "panic is recovered",
			body:    func(ctx context.Context, t *T) error { panic("kaboom") },
			outcome: result.OutcomeError,
			message: "panic: kaboom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := NewFunc(NewMetadata("case", nil), tt.body)
			res := unit.Execute(context.Background())
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, "case", res.Source)
		})
	}
}

func TestFuncPanicWithErrorUnwraps(t *testing.T) {
	sentinel := errors.New("argument out of range")
	unit := NewFunc(NewMetadata("p", nil), func(ctx context.Context, t *T) error {
		panic(sentinel)
	})

	res := unit.Execute(context.Background())
	require.True(t, res.IsError())

	var pe *PanicError
	require.ErrorAs(t, res.Err, &pe)
	assert.ErrorIs(t, res.Err, sentinel)
	assert.NotEmpty(t, pe.Stack)
}

func TestFuncOutputIsFreshPerExecution(t *testing.T) {
	calls := 0
	unit := NewFunc(NewMetadata("log", nil), func(ctx context.Context, t *T) error {
		calls++
		t.Logf("attempt %d", calls)
		return nil
	})

	first := unit.Execute(context.Background())
	second := unit.Execute(context.Background())

	assert.Equal(t, "attempt 1\n", first.Output)
	assert.Equal(t, "attempt 2\n", second.Output)
}

func TestFuncNotRunnable(t *testing.T) {
	meta := NewMetadata("skipme", nil)
	meta.RunState = RunStateIgnored
	meta.Reason = "flaky on CI"

	ran := false
	unit := NewFunc(meta, func(ctx context.Context, t *T) error {
		ran = true
		return nil
	})

	res := unit.Execute(context.Background())
	assert.False(t, ran)
	assert.True(t, res.IsInvalid())
	assert.Equal(t, "ignored: flaky on CI", res.Message)
}

func TestDecoratorForwardsIdentity(t *testing.T) {
	suite := NewGroup("payments")
	meta := NewMetadata("Refund", suite)
	meta.Description = "refunds settle"
	meta.Categories = []string{"slow"}

	calls := 0
	unit := NewFunc(meta, func(ctx context.Context, t *T) error {
		calls++
		return nil
	})

	d := NewDecorator(unit)
	outer := NewDecorator(&d)
	assert.Equal(t, 0, calls, "wrapping must not execute")

	got := outer.Metadata()
	assert.Same(t, meta, got)
	assert.Equal(t, "payments.Refund", got.FullName)
	assert.Equal(t, suite, got.Parent)
	assert.True(t, got.HasCategory("slow"))

	// Later changes on the unit are visible through every layer.
	meta.RunState = RunStateSkipped
	assert.Equal(t, RunStateSkipped, outer.Metadata().RunState)
}

func TestDecoratorDelegatesExecute(t *testing.T) {
	unit := NewFunc(NewMetadata("x", nil), func(ctx context.Context, t *T) error {
		return Fail("nope")
	})
	d := NewDecorator(unit)

	res := d.Execute(context.Background())
	assert.True(t, res.IsFailure())
	assert.Equal(t, "nope", res.Message)
}

func TestNewDecoratorNilPanics(t *testing.T) {
	assert.Panics(t, func() { NewDecorator(nil) })
}

func TestBaseAndChain(t *testing.T) {
	unit := NewFunc(NewMetadata("x", nil), nil)
	d1 := NewDecorator(unit)
	d2 := NewDecorator(&d1)

	assert.Same(t, unit, Base(&d2))
	assert.Same(t, unit, Base(unit))

	chain := Chain(&d2)
	require.Len(t, chain, 3)
	assert.Same(t, unit, chain[2])
}

func TestFindPropertyTwoLevels(t *testing.T) {
	grand := NewGroup("root")
	grand.SetProperty(PropertyMaxTime, "5000")
	parent := NewGroup("suite")
	parent.Parent = grand
	meta := NewMetadata("case", parent)

	_, ok := FindProperty(meta, PropertyMaxTime)
	assert.False(t, ok, "grandparent must not satisfy the lookup")

	parent.SetProperty(PropertyMaxTime, "2000")
	v, ok := FindProperty(meta, PropertyMaxTime)
	require.True(t, ok)
	assert.Equal(t, "2000", v)

	meta.SetProperty(PropertyMaxTime, "1000")
	v, _ = FindProperty(meta, PropertyMaxTime)
	assert.Equal(t, "1000", v)

	_, ok = FindProperty(nil, PropertyMaxTime)
	assert.False(t, ok)
}

func TestParseRunState(t *testing.T) {
	for _, s := range []RunState{RunStateRunnable, RunStateSkipped, RunStateIgnored, RunStateExplicit, RunStateNotRunnable} {
		got, err := ParseRunState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseRunState("")
	require.NoError(t, err)
	assert.Equal(t, RunStateRunnable, got)

	_, err = ParseRunState("maybe")
	assert.Error(t, err)
}

func TestIsAssertion(t *testing.T) {
	assert.True(t, IsAssertion(Fail("x")))
	assert.True(t, IsAssertion(fmt.Errorf("wrap: %w", Fail("x"))))
	assert.False(t, IsAssertion(errors.New("x")))
}
