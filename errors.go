package fsm

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrInitialStateRequired indicates that an initial state is required.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrStateRequired indicates that at least one state is required.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrStateKeyRequired indicates that a state key must be non-empty.
	ErrStateKeyRequired = errors.New("state key is required")
	// ErrEventTypeRequired indicates that an event type key must be non-empty.
	ErrEventTypeRequired = errors.New("event type is required")
	// ErrInitialStateNotFound indicates that the initial state is not declared.
	ErrInitialStateNotFound = errors.New("initial state does not exist")
	// ErrTargetStateNotFound indicates that a transition target is not declared.
	ErrTargetStateNotFound = errors.New("target state does not exist")
	// ErrInvalidActionShape indicates that an action slot is neither a scalar nor a list.
	ErrInvalidActionShape = errors.New("actions must be a scalar or a list")
	// ErrInvalidTransitionShape indicates that a transition is neither shorthand nor explicit.
	ErrInvalidTransitionShape = errors.New("transition must be a target key or a mapping")

	// ErrAlreadyStarted indicates that Start was called on a running service.
	ErrAlreadyStarted = errors.New("service already started")
	// ErrUnknownAction indicates that a named action has no registry entry.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoConfigLoader indicates that no config loader is registered.
	ErrNoConfigLoader = errors.New("no config loader registered; use SetConfigLoader() or provide a file path")
)

// ConfigurationError wraps a machine definition error with its location.
type ConfigurationError struct {
	State string
	Event string
	Err   error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.State != "" && e.Event != "":
		return fmt.Sprintf("state %s, event %s: %v", e.State, e.Event, e.Err)
	case e.State != "":
		return fmt.Sprintf("state %s: %v", e.State, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ActionError wraps an action execution failure with its location.
type ActionError struct {
	State  string
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("state %s, action %s: %v", e.State, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// WrapConfigurationError wraps an error with config location context.
func WrapConfigurationError(state, event string, err error) error {
	if err == nil {
		return nil
	}

	return &ConfigurationError{
		State: state,
		Event: event,
		Err:   err,
	}
}

// WrapActionError wraps an error with action execution context.
func WrapActionError(state, action string, err error) error {
	if err == nil {
		return nil
	}

	return &ActionError{
		State:  state,
		Action: action,
		Err:    err,
	}
}
