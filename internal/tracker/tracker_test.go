package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chr1sbest/rerun/internal/result"
)

func sampleReport() *Report {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &Report{
		RunID:      "run-1",
		Suite:      "smoke",
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Duration:   3 * time.Second,
	}
	r.Add(TestRecord{Name: "a", FullName: "smoke.a", Outcome: result.OutcomeSuccess, Attempts: 1})
	r.Add(TestRecord{Name: "b", FullName: "smoke.b", Outcome: result.OutcomeSuccess, Attempts: 3})
	r.Add(TestRecord{Name: "c", FullName: "smoke.c", Outcome: result.OutcomeFailure, Message: "I failed", Attempts: 2})
	return r
}

func TestWriteReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteReport(sampleReport()); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("read report.json: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	tests := raw["tests"].([]any)
	if got := tests[2].(map[string]any)["outcome"]; got != "failure" {
		t.Errorf("expected outcome written as text, got %v", got)
	}

	r, err := w.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport error: %v", err)
	}
	if r.Summary.Total != 3 || r.Summary.Success != 2 || r.Summary.Failure != 1 {
		t.Errorf("unexpected summary %+v", r.Summary)
	}
	if r.Passed() {
		t.Error("report with a failure must not pass")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only report.json, temp files left behind: %v", entries)
	}
}

func TestLoadReportMissing(t *testing.T) {
	r, err := NewWriter(t.TempDir()).LoadReport()
	if r != nil || err != nil {
		t.Errorf("expected nil, nil; got %v, %v", r, err)
	}
}

func TestSummary(t *testing.T) {
	var s Summary
	for _, o := range []result.Outcome{result.OutcomeSuccess, result.OutcomeInvalid, result.OutcomeError} {
		s.Add(o)
	}
	if s.Total != 3 || s.Invalid != 1 || s.Error != 1 || s.Passed() {
		t.Errorf("unexpected summary %+v", s)
	}

	var empty Summary
	if !empty.Passed() {
		t.Error("an empty run passes")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir)
	if err := w.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	if err := w.WriteReport(sampleReport()); err != nil {
		t.Fatalf("WriteReport after EnsureDir: %v", err)
	}
}
