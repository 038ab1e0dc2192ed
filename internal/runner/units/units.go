// Package units provides the built-in test unit types a suite can name.
// Each factory decodes a unit's raw config and returns the body that runs
// on every attempt.
package units

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
)

// Factory builds a test body from a unit's raw config.
type Factory func(raw json.RawMessage) (command.Body, error)

// Builtin returns the built-in unit factories keyed by type name.
func Builtin() map[string]Factory {
	return map[string]Factory{
		"command": NewCommand,
		"sleep":   NewSleep,
		"noop":    NewNoop,
		"fail":    NewFail,
		"panic":   NewPanic,
		"flaky":   NewFlaky,
	}
}

// decode unmarshals raw into v. An empty config leaves v untouched.
func decode(unitType string, raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s config: %w", unitType, err)
	}
	return nil
}

func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", field)
	}
	return d, nil
}
