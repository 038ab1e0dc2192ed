package units

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
)

// SleepConfig holds configuration for the sleep unit.
type SleepConfig struct {
	Duration string `json:"duration"`
}

// NewSleep builds a unit that sleeps and then passes. It returns early with
// ctx's error when the run is cancelled.
func NewSleep(raw json.RawMessage) (command.Body, error) {
	var cfg SleepConfig
	if err := decode("sleep", raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.Duration == "" {
		return nil, fmt.Errorf("duration is required")
	}
	d, err := parseDuration("duration", cfg.Duration, 0)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, t *command.T) error {
		return sleep(ctx, d)
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
