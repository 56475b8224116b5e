// Package fsm provides a declarative finite-state-machine engine: a pure,
// shareable transition table plus a stateful interpreter that drives
// entry/exit/transition actions and subscriber notifications.
package fsm

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ActionFunc is a side-effecting callback invoked around transitions. The
// context is carried for tracing and logging only; the engine never cancels
// a running action. A non-nil error aborts the remaining steps of the
// current Send or Start and propagates to the caller.
type ActionFunc func(ctx context.Context, event Event) error

// ActionRef points at executable behavior: either a direct function or a
// name resolved at execution time against the service's action registry.
type ActionRef struct {
	name string
	fn   ActionFunc
}

// Named creates a reference resolved by name when the action runs.
func Named(name string) ActionRef {
	return ActionRef{name: name}
}

// Do wraps a function as a direct action reference.
func Do(fn ActionFunc) ActionRef {
	return ActionRef{name: "inline", fn: fn}
}

// DoNamed wraps a function as a direct action reference with a display name
// used in logs, metrics, and spans.
func DoNamed(name string, fn ActionFunc) ActionRef {
	return ActionRef{name: name, fn: fn}
}

// Name returns the display name of the reference.
func (r ActionRef) Name() string {
	return r.name
}

// IsNamed reports whether the reference must be resolved against a registry.
func (r ActionRef) IsNamed() bool {
	return r.fn == nil
}

// resolve returns the function behind the reference. Named references are
// looked up in the registry element-by-element at execution time.
func (r ActionRef) resolve(registry map[string]ActionFunc) (ActionFunc, error) {
	if r.fn != nil {
		return r.fn, nil
	}

	fn, ok := registry[r.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, r.name)
	}

	return fn, nil
}

// Actions holds zero, one, or an ordered list of action references for one
// action slot (entry, exit, or a transition's own actions). The declared
// shape, scalar vs list, is preserved so snapshots can expose actions
// exactly as they were written.
type Actions struct {
	refs []ActionRef
	list bool
}

// SingleAction declares a scalar action slot.
func SingleAction(ref ActionRef) Actions {
	return Actions{refs: []ActionRef{ref}}
}

// ActionList declares a list-shaped action slot. Order is execution order.
func ActionList(refs ...ActionRef) Actions {
	return Actions{refs: append([]ActionRef(nil), refs...), list: true}
}

// IsZero reports whether the slot was left empty.
func (a Actions) IsZero() bool {
	return len(a.refs) == 0 && !a.list
}

// IsList reports whether the slot was declared as a list.
func (a Actions) IsList() bool {
	return a.list
}

// Refs returns the references in declaration order.
func (a Actions) Refs() []ActionRef {
	return append([]ActionRef(nil), a.refs...)
}

// Len returns the number of references in the slot.
func (a Actions) Len() int {
	return len(a.refs)
}

// UnmarshalYAML accepts a scalar action name or a sequence of names.
func (a *Actions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}

		*a = SingleAction(Named(name))

		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}

		refs := make([]ActionRef, 0, len(names))
		for _, name := range names {
			refs = append(refs, Named(name))
		}

		*a = ActionList(refs...)

		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrInvalidActionShape, value.Line)
	}
}

// MarshalYAML emits the slot in its declared shape. Direct references are
// emitted by display name.
func (a Actions) MarshalYAML() (any, error) {
	if a.IsZero() {
		return nil, nil
	}

	if !a.list {
		return a.refs[0].Name(), nil
	}

	names := make([]string, 0, len(a.refs))
	for _, ref := range a.refs {
		names = append(names, ref.Name())
	}

	return names, nil
}
