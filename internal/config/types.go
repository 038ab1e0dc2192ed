package config

import (
	"encoding/json"

	"github.com/chr1sbest/rerun/internal/policy"
)

// Config is a test suite loaded from JSON or YAML.
type Config struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`

	// Policies wrap every test in the suite, outside the test's own policies.
	Policies []policy.Spec `json:"policies,omitempty"`

	Tests []TestConfig `json:"tests"`
}

// TestConfig defines a single test unit in the suite.
type TestConfig struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`

	// RunState is one of runnable (default), skipped, ignored, explicit or
	// not_runnable. Reason is reported alongside a non-runnable state.
	RunState string `json:"run_state,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Policies are applied in list order; the first entry wraps the unit
	// directly.
	Policies []policy.Spec `json:"policies,omitempty"`

	// Config is handed to the unit factory registered for Type.
	Config json.RawMessage `json:"config,omitempty"`
}

// IsEnabled returns whether the test is enabled (defaults to true).
func (t TestConfig) IsEnabled() bool {
	if t.Enabled == nil {
		return true
	}
	return *t.Enabled
}

// EnabledTests returns the tests that are not disabled, in file order.
func (c *Config) EnabledTests() []TestConfig {
	out := make([]TestConfig, 0, len(c.Tests))
	for _, t := range c.Tests {
		if t.IsEnabled() {
			out = append(out, t)
		}
	}
	return out
}
