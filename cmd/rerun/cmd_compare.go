package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/result"
	"github.com/chr1sbest/rerun/internal/tracker"
)

var compareFlags struct {
	reportDir string
}

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.json> [current.json]",
	Short: "Compare two reports and list fixed and regressed tests",
	Long: `compare matches tests by full name across two report.json files. The
current report defaults to the one in --report-dir. The command fails when
any test that passed in the baseline no longer passes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, err := tracker.LoadReportFile(args[0])
		if err != nil {
			return err
		}
		currentPath := tracker.NewWriter(compareFlags.reportDir).ReportPath
		if len(args) == 2 {
			currentPath = args[1]
		}
		current, err := tracker.LoadReportFile(currentPath)
		if err != nil {
			return err
		}

		c := tracker.Compare(baseline, current)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "baseline %s (%s), current %s (%s), duration %s\n\n",
			baseline.RunID, baseline.Suite, current.RunID, current.Suite, c.DurationChange())

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TEST\tBEFORE\tAFTER\tCHANGE\tΔ TIME")
		for _, d := range c.Tests {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.FullName, outcomeCell(d.Before, d.Change == tracker.ChangeAdded), outcomeCell(d.After, d.Change == tracker.ChangeRemoved), d.Change, d.DurationDelta)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if n := len(c.Regressions()); n > 0 {
			fmt.Fprintf(out, "\n%d regression(s)\n", n)
			return errTestsFailed
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareFlags.reportDir, "report-dir", ".rerun", "directory holding the current report.json")
}

// outcomeCell renders o, or "-" for the side of a test that is missing.
func outcomeCell(o result.Outcome, missing bool) string {
	if missing {
		return "-"
	}
	return o.String()
}
