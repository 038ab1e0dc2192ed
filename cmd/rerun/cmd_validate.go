package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/runner"
)

var validateCmd = &cobra.Command{
	Use:   "validate <suite>",
	Short: "Check a suite definition without running it",
	Args:  exactArgs(1, "rerun validate <suite>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := runner.NewDefaultRegistry()
		cfg, path, err := loadSuite(args[0], registry)
		if err != nil {
			return err
		}

		// Building resolves every unit config, which the schema check alone
		// does not.
		log, err := newLogger()
		if err != nil {
			return err
		}
		if _, err := runner.New(registry, log).Build(cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: suite %q is valid (%d tests)\n", path, cfg.Name, len(cfg.Tests))
		return nil
	},
}
