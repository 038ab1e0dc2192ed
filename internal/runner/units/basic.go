package units

import (
	"context"
	"encoding/json"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/policy"
)

// NewNoop builds a unit that always passes.
func NewNoop(json.RawMessage) (command.Body, error) {
	return func(context.Context, *command.T) error { return nil }, nil
}

// FailConfig holds configuration for the fail unit.
type FailConfig struct {
	Message string `json:"message,omitempty"`
}

// NewFail builds a unit whose assertion never holds.
func NewFail(raw json.RawMessage) (command.Body, error) {
	cfg := FailConfig{Message: "failed"}
	if err := decode("fail", raw, &cfg); err != nil {
		return nil, err
	}
	return func(context.Context, *command.T) error {
		return command.Fail(cfg.Message)
	}, nil
}

// PanicConfig holds configuration for the panic unit.
type PanicConfig struct {
	Category string `json:"category,omitempty"`
	Message  string `json:"message,omitempty"`
}

// NewPanic builds a unit that panics with an error of the configured
// category. Pair it with an expected_error policy.
func NewPanic(raw json.RawMessage) (command.Body, error) {
	cfg := PanicConfig{Category: "RuntimeError"}
	if err := decode("panic", raw, &cfg); err != nil {
		return nil, err
	}
	return func(context.Context, *command.T) error {
		panic(policy.NewCategoryError(cfg.Category, cfg.Message))
	}, nil
}
