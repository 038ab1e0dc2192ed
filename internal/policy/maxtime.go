package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/result"
)

const maxTimeSource = "MaxTime.Execute"

// MaxTime turns a successful attempt into a Failure when it took longer
// than limit. It measures only; a running attempt is never interrupted.
type MaxTime struct {
	command.Decorator
	limit time.Duration
	opts  options
}

// NewMaxTime wraps inner. It does not touch the unit's properties; Compose
// records the MaxTime property that TimeoutRetry looks for.
func NewMaxTime(inner command.Command, limit time.Duration, opts ...Option) *MaxTime {
	return &MaxTime{
		Decorator: command.NewDecorator(inner),
		limit:     limit,
		opts:      buildOptions(opts),
	}
}

// MaxTimeValue formats limit the way it is stored as a property.
func MaxTimeValue(limit time.Duration) string {
	return fmt.Sprintf("%d", limit.Milliseconds())
}

func (m *MaxTime) String() string {
	return fmt.Sprintf("MaxTime(%s)", m.limit)
}

func (m *MaxTime) Execute(ctx context.Context) result.Result {
	start := m.opts.now()
	res := m.Inner().Execute(ctx)
	elapsed := m.opts.now().Sub(start)
	m.opts.observe(m.Metadata(), m.String(), 1, res)

	if res.IsSuccess() && elapsed > m.limit {
		return result.Failure(TimeoutMessage(elapsed, m.limit)).
			WithSource(maxTimeSource).
			WithOutput(res.Output)
	}
	return res
}
