package banner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/chr1sbest/rerun/internal/config"
	"github.com/chr1sbest/rerun/internal/policy"
)

// ANSI color codes
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	blue  = "\033[34m"
)

// Box drawing characters
const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
	teeLeft     = "├"
	teeRight    = "┤"
)

// Banner prints the boxed suite header shown before a run.
type Banner struct {
	writer io.Writer
	width  int
}

// New creates a new Banner that writes to stdout
func New() *Banner {
	return &Banner{
		writer: os.Stdout,
		width:  60,
	}
}

// NewWithWriter creates a Banner with a custom writer (for testing)
func NewWithWriter(w io.Writer) *Banner {
	return &Banner{
		writer: w,
		width:  60,
	}
}

// Print displays the suite name, its description and what will run.
func (b *Banner) Print(cfg *config.Config) {
	b.border(topLeft, topRight)
	b.line(cfg.Name, bold+blue)
	if cfg.Description != "" {
		b.line(cfg.Description, dim)
	}
	b.border(teeLeft, teeRight)

	enabled := len(cfg.EnabledTests())
	summary := fmt.Sprintf("%d test%s", enabled, pluralize(enabled))
	if disabled := len(cfg.Tests) - enabled; disabled > 0 {
		summary += fmt.Sprintf(", %d disabled", disabled)
	}
	b.line(summary, "")
	if len(cfg.Policies) > 0 {
		b.line("suite policies: "+DescribePolicies(cfg.Policies), dim)
	}
	b.border(bottomLeft, bottomRight)
	fmt.Fprintln(b.writer)
}

// DescribePolicies renders specs innermost first, e.g.
// "max_time(1s) → timeout_retry(3)".
func DescribePolicies(specs []policy.Spec) string {
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		switch s.Kind {
		case policy.KindRepeat, policy.KindTimeoutRetry:
			parts = append(parts, fmt.Sprintf("%s(%d)", s.Kind, s.Count))
		case policy.KindMaxTime:
			parts = append(parts, fmt.Sprintf("%s(%s)", s.Kind, s.Limit))
		case policy.KindExpectedError:
			parts = append(parts, fmt.Sprintf("%s(%s)", s.Kind, s.Category))
		default:
			parts = append(parts, string(s.Kind))
		}
	}
	return strings.Join(parts, " → ")
}

func (b *Banner) border(left, right string) {
	fmt.Fprintf(b.writer, "%s%s%s%s%s\n", dim, left, strings.Repeat(horizontal, b.width-2), right, reset)
}

func (b *Banner) line(text, style string) {
	room := b.width - 4
	if visualLen(text) > room {
		text = truncate(text, room)
	}
	padding := room - visualLen(text)
	fmt.Fprintf(b.writer, "%s%s%s %s%s%s%s %s%s%s\n",
		dim, vertical, reset, style, text, reset, strings.Repeat(" ", padding), dim, vertical, reset)
}

// visualLen returns the number of runes in s; callers pass text without
// ANSI codes.
func visualLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
