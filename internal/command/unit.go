package command

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/chr1sbest/rerun/internal/result"
)

// T is handed to a test body for the duration of one execution. A new T is
// created for every attempt, so nothing leaks between retries.
type T struct {
	mu     sync.Mutex
	output strings.Builder
}

// Logf appends a line to the attempt's output.
func (t *T) Logf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(&t.output, format, args...)
	if !strings.HasSuffix(format, "\n") {
		t.output.WriteByte('\n')
	}
}

// Fatalf stops the body immediately with an assertion failure.
func (t *T) Fatalf(format string, args ...any) {
	panic(&AssertionError{Message: fmt.Sprintf(format, args...)})
}

// Output returns everything logged so far.
func (t *T) Output() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.output.String()
}

// Body is the code under test.
type Body func(ctx context.Context, t *T) error

// Func is the innermost command of a chain: it runs a Body and classifies
// what it returned.
type Func struct {
	meta *Metadata
	body Body
}

// NewFunc creates a unit for body identified by meta.
func NewFunc(meta *Metadata, body Body) *Func {
	if meta == nil {
		meta = &Metadata{}
	}
	return &Func{meta: meta, body: body}
}

func (f *Func) Metadata() *Metadata { return f.meta }

// Execute runs the body once. Panics are recovered into PanicError, except
// assertion panics from T.Fatalf, which become plain failures.
func (f *Func) Execute(ctx context.Context) result.Result {
	if f.meta.RunState != RunStateRunnable {
		msg := f.meta.RunState.String()
		if f.meta.Reason != "" {
			msg += ": " + f.meta.Reason
		}
		return result.Invalid(msg).WithSource(f.meta.FullName)
	}
	if f.body == nil {
		return result.Invalid("no test body").WithSource(f.meta.FullName)
	}

	t := &T{}
	err := invoke(ctx, f.body, t)
	return result.FromError(err).WithSource(f.meta.FullName).WithOutput(t.Output())
}

func invoke(ctx context.Context, body Body, t *T) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ae, ok := r.(*AssertionError); ok {
			err = ae
			return
		}
		err = &PanicError{Value: r, Stack: debug.Stack()}
	}()
	return body(ctx, t)
}
