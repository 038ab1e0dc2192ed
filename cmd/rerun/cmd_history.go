package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/tracker"
)

var historyFlags struct {
	reportDir string
	flaky     bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show per-test results accumulated across runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := tracker.NewWriter(historyFlags.reportDir).LoadHistory()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if h.Runs == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}

		names := make([]string, 0, len(h.Tests))
		if historyFlags.flaky {
			names = h.FlakyTests()
		} else {
			for name := range h.Tests {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		fmt.Fprintf(out, "%d run(s), last %s\n\n", h.Runs, h.LastRunID)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TEST\tRUNS\tPASSED\tRETRIED\tLAST")
		for _, name := range names {
			th := h.Tests[name]
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", name, th.Runs, th.Successes, th.Retried, th.LastOutcome)
		}
		return tw.Flush()
	},
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.reportDir, "report-dir", ".rerun", "directory holding history.json")
	f.BoolVar(&historyFlags.flaky, "flaky", false, "only tests that have needed a retry to pass")
}
