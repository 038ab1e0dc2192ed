package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chr1sbest/rerun/internal/result"
)

// ANSI escape codes
const (
	clearLine  = "\033[2K"
	moveUp     = "\033[A"
	moveToCol0 = "\r"
	reset      = "\033[0m"
	bold       = "\033[1m"
	dim        = "\033[2m"
	green      = "\033[32m"
	yellow     = "\033[33m"
	red        = "\033[31m"
)

// Progress bar characters
const (
	barFilled = "█"
	barEmpty  = "░"
	barWidth  = 20
)

// Writer handles in-place progress updates to the terminal. Failed tests
// are printed above the bar and stay on screen.
type Writer struct {
	w            io.Writer
	mu           sync.Mutex
	linesWritten int
}

// New creates a status writer that outputs to stdout
func New() *Writer {
	return &Writer{w: os.Stdout}
}

// NewWithWriter creates a status writer with a custom output
func NewWithWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Discard returns a writer that prints nothing.
func Discard() *Writer {
	return &Writer{w: io.Discard}
}

// Clear erases any previously written status lines
func (s *Writer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Writer) clear() {
	for i := 0; i < s.linesWritten; i++ {
		fmt.Fprint(s.w, moveUp+clearLine)
	}
	fmt.Fprint(s.w, moveToCol0)
	s.linesWritten = 0
}

// Update clears previous status and writes new status
func (s *Writer) Update(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	for _, line := range lines {
		fmt.Fprintln(s.w, line)
	}
	s.linesWritten = len(lines)
}

// persist clears the bar and prints lines that are never cleared.
func (s *Writer) persist(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	for _, line := range lines {
		fmt.Fprintln(s.w, line)
	}
}

// progressBar generates a progress bar string
func progressBar(completed, total int) string {
	if total == 0 {
		return strings.Repeat(barEmpty, barWidth)
	}

	filled := (completed * barWidth) / total
	if filled > barWidth {
		filled = barWidth
	}

	return green + strings.Repeat(barFilled, filled) + reset +
		dim + strings.Repeat(barEmpty, barWidth-filled) + reset
}

func counter(done, total int) string {
	return fmt.Sprintf("%s %s%d/%d%s", progressBar(done, total), dim, done, total, reset)
}

// Test shows that test number index (1-based) of total is running.
func (s *Writer) Test(index, total int, name string) {
	s.Update(fmt.Sprintf("%s %s%s%s", counter(index-1, total), bold, name, reset))
}

// Attempt shows a policy re-running the current test.
func (s *Writer) Attempt(index, total int, name, policy string, attempt int) {
	s.Update(fmt.Sprintf("%s %s%s%s %s(%s attempt %d)%s",
		counter(index-1, total), bold, name, reset, yellow, policy, attempt, reset))
}

// Error prints a test that did not succeed. The line persists.
func (s *Writer) Error(index, total int, name string, res result.Result) {
	lines := []string{fmt.Sprintf("%s✗ %s %s%s", red+bold, name, res.Outcome, reset)}
	if res.Message != "" {
		lines = append(lines, fmt.Sprintf("  %s%s%s", dim, res.Message, reset))
	}
	s.persist(lines...)
	s.Update(counter(index, total))
}

// Skipped prints a test that was not run because fail-fast tripped.
func (s *Writer) Skipped(index, total int, name string) {
	s.persist(fmt.Sprintf("%s⚡ %s skipped (fail-fast)%s", yellow, name, reset))
	s.Update(counter(index, total))
}

// Complete shows the final tally.
func (s *Writer) Complete(passed, total int) {
	mark := green + bold + "✓ Complete" + reset
	if passed != total {
		mark = fmt.Sprintf("%s✗ %d of %d failed%s", red+bold, total-passed, total, reset)
	}
	s.persist(counter(total, total), mark)
}
