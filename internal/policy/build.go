package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/chr1sbest/rerun/internal/command"
)

// Kind names a policy in configuration.
type Kind string

const (
	KindRepeat        Kind = "repeat"
	KindTimeoutRetry  Kind = "timeout_retry"
	KindExpectedError Kind = "expected_error"
	KindMaxTime       Kind = "max_time"
)

// Kinds lists every supported policy kind.
func Kinds() []Kind {
	return []Kind{KindRepeat, KindTimeoutRetry, KindExpectedError, KindMaxTime}
}

// Spec is the configuration of one policy attached to a unit or a group.
type Spec struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Count    int    `json:"count,omitempty" yaml:"count,omitempty"`       // repeat, timeout_retry
	Limit    string `json:"limit,omitempty" yaml:"limit,omitempty"`       // max_time, e.g. "1s", "1500ms"
	Category string `json:"category,omitempty" yaml:"category,omitempty"` // expected_error
}

// LimitDuration parses Limit.
func (s Spec) LimitDuration() (time.Duration, error) {
	if s.Limit == "" {
		return 0, fmt.Errorf("limit is required")
	}
	d, err := time.ParseDuration(s.Limit)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q: %w", s.Limit, err)
	}
	return d, nil
}

// Validate checks one spec.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindRepeat:
		if s.Count < 0 {
			return fmt.Errorf("count must not be negative, got %d", s.Count)
		}
	case KindTimeoutRetry:
		if s.Count <= 0 {
			return fmt.Errorf("count must be positive, got %d", s.Count)
		}
	case KindExpectedError:
		if s.Category == "" {
			return fmt.Errorf("category is required")
		}
	case KindMaxTime:
		d, err := s.LimitDuration()
		if err != nil {
			return err
		}
		if d <= 0 {
			return fmt.Errorf("limit must be positive, got %s", s.Limit)
		}
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown policy kind %q", s.Kind)
	}
	return nil
}

// Validate checks every spec and reports all problems at once.
func Validate(specs []Spec) error {
	var errs []error
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("policy[%d] (%s): %w", i, s.Kind, err))
		}
	}
	return errors.Join(errs...)
}

// Has reports whether specs contain a policy of kind.
func Has(specs []Spec, kind Kind) bool {
	for _, s := range specs {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// MaxTimeProperty returns the property value of the last max_time spec,
// for recording on a group whose units inherit the limit.
func MaxTimeProperty(specs []Spec) (string, bool) {
	limit, ok := effectiveMaxTime(specs)
	if !ok {
		return "", false
	}
	return MaxTimeValue(limit), true
}

// effectiveMaxTime returns the limit of the last valid max_time spec.
func effectiveMaxTime(specs []Spec) (time.Duration, bool) {
	var limit time.Duration
	found := false
	for _, s := range specs {
		if s.Kind != KindMaxTime {
			continue
		}
		if d, err := s.LimitDuration(); err == nil {
			limit, found = d, true
		}
	}
	return limit, found
}

// Apply wraps cmd with specs. See Compose.
func Apply(cmd command.Command, specs []Spec, opts ...Option) (command.Command, error) {
	return Compose(cmd, specs, nil, opts...)
}

// Compose builds the chain of a unit from its own specs and those of its
// group. The effective max_time (the unit's last one, else the group's)
// wraps the unit directly and is recorded as its MaxTime property, so every
// retry sees its timeout failures whatever the list order. The remaining
// unit specs follow in list order, first spec innermost, and the group's
// specs wrap outside them. Nothing is executed.
func Compose(cmd command.Command, unitSpecs, groupSpecs []Spec, opts ...Option) (command.Command, error) {
	if err := Validate(unitSpecs); err != nil {
		return nil, err
	}
	if err := Validate(groupSpecs); err != nil {
		return nil, fmt.Errorf("suite: %w", err)
	}

	limit, ok := effectiveMaxTime(unitSpecs)
	if !ok {
		limit, ok = effectiveMaxTime(groupSpecs)
	}
	if ok {
		if meta := cmd.Metadata(); meta != nil {
			meta.SetProperty(command.PropertyMaxTime, MaxTimeValue(limit))
		}
		cmd = NewMaxTime(cmd, limit, opts...)
	}

	for _, specs := range [][]Spec{unitSpecs, groupSpecs} {
		for _, s := range specs {
			cmd = wrap(cmd, s, opts)
		}
	}
	return cmd, nil
}

func wrap(cmd command.Command, s Spec, opts []Option) command.Command {
	switch s.Kind {
	case KindRepeat:
		return NewRepeatUntilSuccess(cmd, s.Count, opts...)
	case KindTimeoutRetry:
		return NewTimeoutRetry(cmd, s.Count, opts...)
	case KindExpectedError:
		return NewExpectError(cmd, Category(s.Category), opts...)
	}
	return cmd
}
