package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chr1sbest/rerun/internal/config"
	"github.com/chr1sbest/rerun/internal/logger"
	"github.com/chr1sbest/rerun/internal/runner"
	"github.com/chr1sbest/rerun/internal/status"
	"github.com/chr1sbest/rerun/internal/tracker"
)

var watchFlags struct {
	reportDir string
	failFast  int
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun suites in --suite-dir whenever their files change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		if globalFlags.envFile != "" {
			if err := config.LoadEnvFile(globalFlags.envFile); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := config.NewWatcher(config.NewLoader(globalFlags.suiteDir), globalFlags.suiteDir)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		if err := w.Start(ctx); err != nil {
			return err
		}

		trk := tracker.NewWriter(watchFlags.reportDir)
		if err := trk.EnsureDir(); err != nil {
			return err
		}
		registry := runner.NewDefaultRegistry()
		log.Info("Watching suites", logger.F("dir", globalFlags.suiteDir))
		fmt.Fprintf(cmd.OutOrStdout(), "watching %s, Ctrl-C to stop\n", globalFlags.suiteDir)

		return watchLoop(ctx, w.Events(), func(ctx context.Context, cfg *config.Config) error {
			r := runner.New(registry, log,
				runner.WithStatus(status.NewWithWriter(cmd.OutOrStdout())),
				runner.WithTracker(trk, tracker.NewRunID()),
				runner.WithFailFast(watchFlags.failFast),
			)
			report, err := r.Run(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d passed\n", cfg.Name, report.Summary.Success, report.Summary.Total)
			return nil
		}, log)
	},
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchFlags.reportDir, "report-dir", ".rerun", "directory for report.json, run state and history")
	f.IntVar(&watchFlags.failFast, "fail-fast", 0, "skip remaining tests after N consecutive tests fail (0 disables)")
}

// watchLoop runs each changed suite until ctx is done or events closes.
// Run errors are logged and do not stop the loop.
func watchLoop(ctx context.Context, events <-chan config.Event, run func(context.Context, *config.Config) error, log logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Path)
			switch {
			case ev.Removed:
				log.Info("Suite removed", logger.F("file", name))
			case ev.Err != nil:
				log.Error("Suite failed to load", logger.F("file", name), logger.F("error", ev.Err))
			default:
				if err := run(ctx, ev.Config); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Suite run failed", logger.F("suite", ev.Config.Name), logger.F("error", err))
				}
			}
		}
	}
}
