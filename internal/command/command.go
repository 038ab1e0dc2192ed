// Package command defines the executable test unit contract and the
// decorator base that policies build on.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/chr1sbest/rerun/internal/result"
)

// PropertyMaxTime is the property recorded on a unit or group when an
// elapsed-time limit is configured for it. Its value is the limit in
// milliseconds.
const PropertyMaxTime = "MaxTime"

// RunState describes whether the host should run a unit.
type RunState int

const (
	RunStateRunnable RunState = iota
	RunStateSkipped
	RunStateIgnored
	RunStateExplicit
	RunStateNotRunnable
)

func (s RunState) String() string {
	switch s {
	case RunStateRunnable:
		return "runnable"
	case RunStateSkipped:
		return "skipped"
	case RunStateIgnored:
		return "ignored"
	case RunStateExplicit:
		return "explicit"
	case RunStateNotRunnable:
		return "not-runnable"
	default:
		return "unknown"
	}
}

// ParseRunState converts a configuration string into a RunState. An empty
// string means runnable.
func ParseRunState(s string) (RunState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "runnable":
		return RunStateRunnable, nil
	case "skipped", "skip":
		return RunStateSkipped, nil
	case "ignored", "ignore":
		return RunStateIgnored, nil
	case "explicit":
		return RunStateExplicit, nil
	case "not-runnable", "not_runnable":
		return RunStateNotRunnable, nil
	}
	return RunStateRunnable, fmt.Errorf("unknown run state %q", s)
}

// Group is a parent grouping of units, such as a suite.
type Group struct {
	Name       string
	Properties map[string]string
	Parent     *Group
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{Name: name, Properties: make(map[string]string)}
}

// SetProperty records a property on the group.
func (g *Group) SetProperty(key, value string) {
	if g.Properties == nil {
		g.Properties = make(map[string]string)
	}
	g.Properties[key] = value
}

// Property returns a property recorded on the group.
func (g *Group) Property(key string) (string, bool) {
	if g == nil {
		return "", false
	}
	v, ok := g.Properties[key]
	return v, ok
}

// Metadata is the identity of a test unit. Decorators forward it from the
// unit they wrap, so every layer of a chain reports the same identity.
type Metadata struct {
	ID          string
	Name        string
	FullName    string
	Description string
	Categories  []string
	Properties  map[string]string
	RunState    RunState
	Reason      string // why the unit is not runnable
	Parent      *Group
}

// NewMetadata creates runnable metadata for a unit inside parent.
func NewMetadata(name string, parent *Group) *Metadata {
	full := name
	if parent != nil && parent.Name != "" {
		full = parent.Name + "." + name
	}
	return &Metadata{
		ID:         full,
		Name:       name,
		FullName:   full,
		Properties: make(map[string]string),
		Parent:     parent,
	}
}

// SetProperty records a property on the unit.
func (m *Metadata) SetProperty(key, value string) {
	if m.Properties == nil {
		m.Properties = make(map[string]string)
	}
	m.Properties[key] = value
}

// Property returns a property recorded on the unit itself.
func (m *Metadata) Property(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Properties[key]
	return v, ok
}

// HasCategory reports whether the unit is tagged with category.
func (m *Metadata) HasCategory(category string) bool {
	for _, c := range m.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// FindProperty looks key up on the unit and then on its immediate parent
// group. Grandparents are not consulted.
func FindProperty(meta *Metadata, key string) (string, bool) {
	if meta == nil {
		return "", false
	}
	if v, ok := meta.Property(key); ok {
		return v, true
	}
	return meta.Parent.Property(key)
}

// Command is an executable test unit. Execute blocks until the unit, and
// any policy wrapped around it, has produced a final Result.
type Command interface {
	Metadata() *Metadata
	Execute(ctx context.Context) result.Result
}
