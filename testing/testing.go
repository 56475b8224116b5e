// Package testing provides testing utilities for fsm machines and services.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statewise/fsm"
)

// TestService wraps a Service with notification recording and assertions.
type TestService struct {
	*fsm.Service

	t             *testing.T
	notifications []fsm.Snapshot
}

// NewTestService creates a started test service for a machine. Options are
// passed through to fsm.Interpret; a recording subscriber is attached before
// the service starts.
func NewTestService(t *testing.T, machine *fsm.Machine, opts ...fsm.Option) *TestService {
	t.Helper()

	ts := &TestService{
		Service: fsm.Interpret(machine, opts...),
		t:       t,
	}

	ts.Subscribe(func(snapshot fsm.Snapshot) {
		ts.notifications = append(ts.notifications, snapshot)
	})

	require.NoError(t, ts.Start(context.Background()), "failed to start service")

	return ts
}

// MustSend dispatches an event and fails the test on an action error.
// It returns whether the event matched a transition.
func (ts *TestService) MustSend(eventType string) bool {
	ts.t.Helper()

	changed, err := ts.Send(context.Background(), fsm.Event{Type: eventType})
	require.NoError(ts.t, err, "send %q failed", eventType)

	return changed
}

// Notifications returns the snapshots delivered so far, in order.
func (ts *TestService) Notifications() []fsm.Snapshot {
	return ts.notifications
}

// AssertValue checks the current snapshot value.
func (ts *TestService) AssertValue(expected string) {
	ts.t.Helper()

	require.Equal(ts.t, expected, ts.State().Value, "snapshot value should be %q", expected)
}

// AssertNotificationCount checks how many notifications were delivered.
func (ts *TestService) AssertNotificationCount(expected int) {
	ts.t.Helper()

	require.Len(ts.t, ts.notifications, expected, "notification count should be %d", expected)
}

// AssertPath checks the sequence of snapshot values delivered to
// subscribers since the service started.
func (ts *TestService) AssertPath(values ...string) {
	ts.t.Helper()

	path := make([]string, 0, len(ts.notifications))
	for _, snapshot := range ts.notifications {
		path = append(path, snapshot.Value)
	}

	require.Equal(ts.t, values, path, "notified path should match")
}

// Recorder collects action invocations by display name, preserving order.
type Recorder struct {
	calls []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Action returns a recording action function for the given name.
func (r *Recorder) Action(name string) fsm.ActionFunc {
	return func(ctx context.Context, event fsm.Event) error {
		r.calls = append(r.calls, name)

		return nil
	}
}

// Registry builds an action registry of recording functions for the given
// names, suitable for fsm.WithActions.
func (r *Recorder) Registry(names ...string) map[string]fsm.ActionFunc {
	registry := make(map[string]fsm.ActionFunc, len(names))
	for _, name := range names {
		registry[name] = r.Action(name)
	}

	return registry
}

// Calls returns the recorded invocation order.
func (r *Recorder) Calls() []string {
	return r.calls
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.calls = nil
}

// AssertCalls fails the test unless the recorded order matches exactly.
func (r *Recorder) AssertCalls(t *testing.T, expected ...string) {
	t.Helper()

	require.Equal(t, expected, r.calls, "action execution order should match")
}
