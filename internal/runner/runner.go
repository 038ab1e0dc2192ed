// Package runner executes a suite: it builds every test's command chain
// from configuration, runs the tests one after another, and reports their
// final results.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/config"
	"github.com/chr1sbest/rerun/internal/logger"
	"github.com/chr1sbest/rerun/internal/policy"
	"github.com/chr1sbest/rerun/internal/resilience"
	"github.com/chr1sbest/rerun/internal/result"
	"github.com/chr1sbest/rerun/internal/status"
	"github.com/chr1sbest/rerun/internal/tracker"
)

// MessageSkippedFailFast is the Invalid message of tests not run because
// fail-fast tripped.
const MessageSkippedFailFast = "skipped: fail-fast circuit open"

// Report is the outcome of one suite run.
type Report = tracker.Report

// TestReport is the final result of one test within a Report.
type TestReport = tracker.TestRecord

// Test is a built test: its configuration and the command chain to execute.
type Test struct {
	Config   config.TestConfig
	Command  command.Command
	attempts *int
}

// Runner executes suites.
type Runner struct {
	registry *UnitRegistry
	logger   logger.Logger
	status   *status.Writer
	tracker  *tracker.Writer
	runID    string
	failFast int
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithStatus shows progress on w.
func WithStatus(w *status.Writer) Option {
	return func(r *Runner) { r.status = w }
}

// WithTracker persists run state, the report and history into w.
func WithTracker(w *tracker.Writer, runID string) Option {
	return func(r *Runner) {
		r.tracker = w
		r.runID = runID
	}
}

// WithFailFast skips the remaining tests once threshold consecutive tests
// have not succeeded. Zero disables it.
func WithFailFast(threshold int) Option {
	return func(r *Runner) { r.failFast = threshold }
}

// New creates a runner.
func New(registry *UnitRegistry, log logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		logger:   log,
		status:   status.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = tracker.NewRunID()
	}
	return r
}

// Build validates cfg and builds the command chain of every enabled test.
// Nothing is executed.
func (r *Runner) Build(cfg *config.Config, opts ...policy.Option) ([]Test, error) {
	if err := config.ValidateConfig(cfg, r.registry.RegisteredTypes()); err != nil {
		return nil, err
	}

	suite := command.NewGroup(cfg.Name)
	for k, v := range cfg.Properties {
		suite.SetProperty(k, v)
	}
	if v, ok := policy.MaxTimeProperty(cfg.Policies); ok {
		suite.SetProperty(command.PropertyMaxTime, v)
	}

	var tests []Test
	for _, tc := range cfg.EnabledTests() {
		t, err := r.buildTest(suite, cfg.Policies, tc, opts)
		if err != nil {
			return nil, fmt.Errorf("test %q: %w", tc.Name, err)
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func (r *Runner) buildTest(suite *command.Group, suitePolicies []policy.Spec, tc config.TestConfig, opts []policy.Option) (Test, error) {
	meta := command.NewMetadata(tc.Name, suite)
	meta.Description = tc.Description
	meta.Categories = tc.Categories
	meta.Reason = tc.Reason
	for k, v := range tc.Properties {
		meta.SetProperty(k, v)
	}
	state, err := command.ParseRunState(tc.RunState)
	if err != nil {
		return Test{}, err
	}
	meta.RunState = state

	body, err := r.registry.Build(tc.Type, tc.Config)
	if err != nil {
		return Test{}, err
	}

	attempts := new(int)
	counted := func(ctx context.Context, t *command.T) error {
		*attempts++
		return body(ctx, t)
	}

	cmd, err := policy.Compose(command.NewFunc(meta, counted), tc.Policies, suitePolicies, opts...)
	if err != nil {
		return Test{}, err
	}

	return Test{Config: tc, Command: cmd, attempts: attempts}, nil
}

// Run executes every enabled test of cfg in order and returns the report.
// Cancelling ctx stops the run between tests; the partial report is
// returned together with ctx's error. A test that is already running is
// never interrupted by the runner itself.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	var current int
	var total int
	observer := policy.ObserverFunc(func(meta *command.Metadata, name string, attempt int, res result.Result) {
		r.logger.Debug("Policy attempt",
			logger.F("test", meta.FullName),
			logger.F("policy", name),
			logger.F("attempt", attempt),
			logger.F("outcome", res.Outcome.String()),
			logger.F("message", res.Message),
		)
		if !res.IsSuccess() {
			r.status.Attempt(current, total, meta.FullName, name, attempt)
		}
	})

	tests, err := r.Build(cfg, policy.WithObserver(observer))
	if err != nil {
		return nil, err
	}
	total = len(tests)

	log := r.logger.WithFields(logger.F("suite", cfg.Name), logger.F("run_id", r.runID))
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{Threshold: r.failFast})
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		if to == resilience.CircuitOpen {
			log.Warn("Fail-fast tripped, skipping remaining tests", logger.F("failures", r.failFast))
		}
	})

	report := &Report{RunID: r.runID, Suite: cfg.Name, StartedAt: r.now()}
	state := tracker.RunState{
		RunID:     r.runID,
		PID:       os.Getpid(),
		Suite:     cfg.Name,
		StartedAt: report.StartedAt,
		Total:     total,
		Status:    tracker.RunStatusRunning,
	}
	r.writeRunState(&state)
	log.Info("Starting suite", logger.F("tests", total))

	for i, t := range tests {
		if err := ctx.Err(); err != nil {
			state.Status = tracker.RunStatusAborted
			state.LastError = err.Error()
			r.writeRunState(&state)
			r.finish(report)
			return report, err
		}

		current = i + 1
		meta := t.Command.Metadata()
		state.CurrentTest = meta.FullName
		state.TestStartedAt = r.now()
		r.writeRunState(&state)

		var rec TestReport
		if breaker.Allow() {
			r.status.Test(current, total, meta.FullName)
			var res result.Result
			rec, res = r.execute(ctx, t)
			if meta.RunState == command.RunStateRunnable {
				breaker.Record(res.IsSuccess())
			}
			if !res.IsSuccess() {
				r.status.Error(current, total, meta.FullName, res)
			}
		} else {
			rec = skipped(meta)
			r.status.Skipped(current, total, meta.FullName)
		}
		report.Add(rec)
		r.logResult(log, rec)

		state.Completed = current
		state.CurrentTest = ""
		r.writeRunState(&state)
	}

	state.Status = tracker.RunStatusComplete
	r.writeRunState(&state)
	r.finish(report)
	r.status.Complete(report.Summary.Success, report.Summary.Total)
	log.Info("Suite complete",
		logger.F("passed", report.Summary.Success),
		logger.F("total", report.Summary.Total),
		logger.F("duration", report.Duration.String()),
	)
	return report, nil
}

func (r *Runner) execute(ctx context.Context, t Test) (TestReport, result.Result) {
	meta := t.Command.Metadata()
	*t.attempts = 0
	start := r.now()

	// A test that is not runnable reports its run state as is; policies
	// would turn that Invalid into a failure.
	cmd := t.Command
	if meta.RunState != command.RunStateRunnable {
		cmd = command.Base(cmd)
	}
	res := cmd.Execute(ctx)

	rec := TestReport{
		Name:     meta.Name,
		FullName: meta.FullName,
		Outcome:  res.Outcome,
		Message:  res.Message,
		Source:   res.Source,
		Output:   res.Output,
		Attempts: *t.attempts,
		Duration: r.now().Sub(start),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec, res
}

func skipped(meta *command.Metadata) TestReport {
	return TestReport{
		Name:     meta.Name,
		FullName: meta.FullName,
		Outcome:  result.OutcomeInvalid,
		Message:  MessageSkippedFailFast,
	}
}

func (r *Runner) logResult(log logger.Logger, rec TestReport) {
	fields := []logger.Field{
		logger.F("test", rec.FullName),
		logger.F("outcome", rec.Outcome.String()),
		logger.F("attempts", rec.Attempts),
		logger.F("duration", rec.Duration.String()),
	}
	if rec.Outcome == result.OutcomeSuccess {
		log.Info("Test passed", fields...)
		return
	}
	fields = append(fields, logger.F("message", rec.Message))
	if rec.Source != "" {
		fields = append(fields, logger.F("source", rec.Source))
	}
	log.Warn("Test did not pass", fields...)
}

// finish stamps the report and persists it with the run history.
func (r *Runner) finish(report *Report) {
	report.FinishedAt = r.now()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)
	if r.tracker == nil {
		return
	}
	if err := r.tracker.WriteReport(report); err != nil {
		r.logger.Error("Failed to write report", logger.F("error", err))
	}
	if _, err := r.tracker.RecordRun(report); err != nil {
		r.logger.Error("Failed to update history", logger.F("error", err))
	}
}

func (r *Runner) writeRunState(s *tracker.RunState) {
	if r.tracker == nil {
		return
	}
	s.UpdatedAt = r.now()
	if err := r.tracker.WriteRunState(*s); err != nil {
		r.logger.Debug("Failed to write run state", logger.F("error", err))
	}
}
