package units

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/chr1sbest/rerun/internal/command"
)

// FlakyConfig holds configuration for the flaky unit.
type FlakyConfig struct {
	// SucceedOn is the 1-based attempt that first passes.
	SucceedOn int `json:"succeed_on"`
	// Delay, when set, makes failing attempts sleep and return normally so
	// that a max_time policy reports them as timeouts. Otherwise failing
	// attempts are assertion failures carrying Message.
	Delay   string `json:"delay,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewFlaky builds a unit that fails until it has been executed SucceedOn
// times. The attempt counter lives as long as the body, so it spans every
// policy retry within a run.
func NewFlaky(raw json.RawMessage) (command.Body, error) {
	cfg := FlakyConfig{SucceedOn: 2, Message: "flaky failure"}
	if err := decode("flaky", raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.SucceedOn < 1 {
		return nil, fmt.Errorf("succeed_on must be at least 1, got %d", cfg.SucceedOn)
	}
	delay, err := parseDuration("delay", cfg.Delay, 0)
	if err != nil {
		return nil, err
	}

	var attempts atomic.Int64
	return func(ctx context.Context, t *command.T) error {
		n := int(attempts.Add(1))
		t.Logf("attempt %d of %d", n, cfg.SucceedOn)
		if n >= cfg.SucceedOn {
			return nil
		}
		if delay > 0 {
			return sleep(ctx, delay)
		}
		return command.Fail(cfg.Message)
	}, nil
}
