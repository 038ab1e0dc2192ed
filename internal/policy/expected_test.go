package policy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

func unit(body command.Body) *command.Func {
	return command.NewFunc(command.NewMetadata("unit", nil), body)
}

func TestExpectError_DecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		body    command.Body
		outcome result.Outcome
		message string
	}{
		{
			name:    "expected category returned",
			body:    func(ctx context.Context, t *command.T) error { return NewCategoryError("ArgumentError", "bad arg") },
			outcome: result.OutcomeSuccess,
		},
		{
			name:    "expected category panicked",
			body:    func(ctx context.Context, t *command.T) error { panic(NewCategoryError("ArgumentError", "")) },
			outcome: result.OutcomeSuccess,
		},
		{
			name:    "other category",
			body:    func(ctx context.Context, t *command.T) error { return NewCategoryError("IOError", "") },
			outcome: result.OutcomeFailure,
			message: "Expected ArgumentError but got IOError",
		},
		{
			name:    "nothing raised",
			body:    func(ctx context.Context, t *command.T) error { return nil },
			outcome: result.OutcomeFailure,
			message: "Expected ArgumentError but no exception was thrown",
		},
		{
			name:    "assertion failure is its own category",
			body:    func(ctx context.Context, t *command.T) error { return command.Fail("1 != 2") },
			outcome: result.OutcomeFailure,
			message: "Expected ArgumentError but got AssertionError",
		},
		{
			name:    "non-error panic",
			body:    func(ctx context.Context, t *command.T) error { panic("oops") },
			outcome: result.OutcomeFailure,
			message: "Expected ArgumentError but got PanicError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewExpectError(unit(tt.body), "ArgumentError").Execute(context.Background())
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, expectErrorSource, res.Source)
		})
	}
}

func TestExpectError_ExecutesOnce(t *testing.T) {
	inner := newScripted(result.Raised(NewCategoryError("ArgumentError", "")))

	res := NewExpectError(inner, "ArgumentError").Execute(context.Background())

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, inner.calls)
}

func TestExpectError_TypeNamedCategory(t *testing.T) {
	inner := unit(func(ctx context.Context, t *command.T) error {
		return &fs.PathError{Op: "open", Path: "/nope", Err: fs.ErrNotExist}
	})

	res := NewExpectError(inner, CategoryOf(&fs.PathError{})).Execute(context.Background())

	assert.True(t, res.IsSuccess())
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, Category(""), CategoryOf(nil))
	assert.Equal(t, Category("errorString"), CategoryOf(errors.New("x")))
	assert.Equal(t, Category("PathError"), CategoryOf(&fs.PathError{}))
	assert.Equal(t, Category("ArgumentError"), CategoryOf(NewCategoryError("ArgumentError", "")))

	// Only the error itself is classified, not what it wraps.
	wrapped := fmt.Errorf("ctx: %w", NewCategoryError("ArgumentError", ""))
	assert.Equal(t, Category("wrapError"), CategoryOf(wrapped))
}

func TestCategoryErrorMessage(t *testing.T) {
	assert.Equal(t, "ArgumentError", NewCategoryError("ArgumentError", "").Error())
	assert.Equal(t, "ArgumentError: negative", NewCategoryError("ArgumentError", "negative").Error())
}
