package units

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
)

// CommandConfig holds configuration for the command unit.
type CommandConfig struct {
	Command string            `json:"command"`
	Timeout string            `json:"timeout,omitempty"`
	Dir     string            `json:"dir,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

const defaultCommandTimeout = 5 * time.Minute

// NewCommand builds a unit that runs a shell command. A non-zero exit is an
// assertion failure; the combined output is kept on the result.
func NewCommand(raw json.RawMessage) (command.Body, error) {
	var cfg CommandConfig
	if err := decode("command", raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required")
	}
	timeout, err := parseDuration("timeout", cfg.Timeout, defaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	env := environ(cfg.Env)

	return func(ctx context.Context, t *command.T) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", cfg.Command)
		cmd.Dir = cfg.Dir
		cmd.Env = env
		cmd.WaitDelay = time.Second
		output, err := cmd.CombinedOutput()
		if len(output) > 0 {
			t.Logf("%s", strings.TrimRight(string(output), "\n"))
		}
		if err == nil {
			return nil
		}

		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("command timed out after %s: %w", timeout, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return command.Failf("command exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("command failed: %w", err)
	}, nil
}

// environ returns the process environment plus extra, or nil (inherit) when
// extra is empty.
func environ(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
