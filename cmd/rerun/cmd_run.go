package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/banner"
	"github.com/chr1sbest/rerun/internal/logger"
	"github.com/chr1sbest/rerun/internal/runner"
	"github.com/chr1sbest/rerun/internal/status"
	"github.com/chr1sbest/rerun/internal/tracker"
)

var runFlags struct {
	reportDir string
	failFast  int
	quiet     bool
}

var runCmd = &cobra.Command{
	Use:   "run <suite>",
	Short: "Run a suite and write its report",
	Args:  exactArgs(1, "rerun run <suite>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		registry := runner.NewDefaultRegistry()
		cfg, _, err := loadSuite(args[0], registry)
		if err != nil {
			return err
		}

		trk := tracker.NewWriter(runFlags.reportDir)
		if err := trk.EnsureDir(); err != nil {
			return err
		}
		runID := tracker.NewRunID()
		release, err := trk.AcquireLock(runID)
		if err != nil {
			return err
		}
		defer func() { _ = release() }()

		if prev, _ := trk.LoadRunState(); prev.Interrupted() {
			log.Warn("Previous run did not finish",
				logger.F("run_id", prev.RunID),
				logger.F("suite", prev.Suite),
				logger.F("test", prev.CurrentTest),
			)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := status.New()
		if runFlags.quiet {
			out = status.Discard()
		} else {
			banner.NewWithWriter(cmd.OutOrStdout()).Print(cfg)
		}

		r := runner.New(registry, log,
			runner.WithStatus(out),
			runner.WithTracker(trk, runID),
			runner.WithFailFast(runFlags.failFast),
		)
		report, err := r.Run(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("run interrupted: %w", err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d passed, report: %s\n", report.Summary.Success, report.Summary.Total, trk.ReportPath)
		if !report.Passed() {
			return errTestsFailed
		}
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.reportDir, "report-dir", ".rerun", "directory for report.json, run state and history")
	f.IntVar(&runFlags.failFast, "fail-fast", 0, "skip remaining tests after N consecutive tests fail (0 disables)")
	f.BoolVarP(&runFlags.quiet, "quiet", "q", false, "no banner or progress output")
}
