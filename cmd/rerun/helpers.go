package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/config"
	"github.com/chr1sbest/rerun/internal/logger"
	"github.com/chr1sbest/rerun/internal/runner"
)

// exactArgs is cobra.ExactArgs with a usage line in the error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
}

// newLogger builds the CLI logger. Flags win over RERUN_LOG_LEVEL and
// RERUN_LOG_FORMAT. Logs go to stderr so progress output on stdout stays
// readable.
func newLogger() (logger.Logger, error) {
	levelName := firstNonEmpty(globalFlags.logLevel, os.Getenv("RERUN_LOG_LEVEL"), "warn")
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	format := logger.Format(firstNonEmpty(globalFlags.logFormat, os.Getenv("RERUN_LOG_FORMAT"), string(logger.FormatConsole)))
	if format != logger.FormatConsole && format != logger.FormatJSON {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return logger.New(logger.Config{Level: level, Format: format, Output: os.Stderr}), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadSuite resolves name against --suite-dir, loads it and validates it
// against the unit types in registry.
func loadSuite(name string, registry *runner.UnitRegistry) (*config.Config, string, error) {
	if globalFlags.envFile != "" {
		if err := config.LoadEnvFile(globalFlags.envFile); err != nil {
			return nil, "", err
		}
	}

	loader := config.NewLoader(globalFlags.suiteDir)
	path, err := loader.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	cfg, err := loader.LoadAndValidate(path, registry.RegisteredTypes())
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
