package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/banner"
	"github.com/chr1sbest/rerun/internal/runner"
)

var listCmd = &cobra.Command{
	Use:   "list <suite>",
	Short: "List the tests of a suite with their policy chains",
	Args:  exactArgs(1, "rerun list <suite>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := runner.NewDefaultRegistry()
		cfg, _, err := loadSuite(args[0], registry)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TEST\tTYPE\tSTATE\tPOLICIES")
		for _, tc := range cfg.Tests {
			state := "enabled"
			if !tc.IsEnabled() {
				state = "disabled"
			} else if tc.RunState != "" {
				state = tc.RunState
			}
			policies := banner.DescribePolicies(tc.Policies)
			if policies == "" {
				policies = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tc.Name, tc.Type, state, policies)
		}
		if len(cfg.Policies) > 0 {
			fmt.Fprintf(tw, "(suite)\t\t\t%s\n", banner.DescribePolicies(cfg.Policies))
		}
		return tw.Flush()
	},
}
