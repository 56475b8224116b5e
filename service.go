package fsm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
)

// Action phase constants.
const (
	phaseEntry      = "entry"
	phaseExit       = "exit"
	phaseTransition = "transition"
)

// Transition kind constants for metrics.
const (
	kindExternal = "external"
	kindInternal = "internal"
)

// Service is the stateful interpreter: it owns exactly one current-state
// snapshot, the subscriber list, and the running flag, and it drives one
// machine over time.
//
// All operations are synchronous and run to completion on the caller's
// goroutine; the engine has no internal suspension point. A service is
// meant to be driven from a single goroutine. An action may call Send
// re-entrantly: nested sends run to completion before the outer send's
// remaining steps (entry actions, notification) continue. There is no
// deferred event queue.
type Service struct {
	id       string
	machine  *Machine
	registry map[string]ActionFunc
	logger   Logger
	running  atomic.Bool
	snapshot Snapshot
	subs     []subscriberEntry
	nextSub  uint64
}

type subscriberEntry struct {
	id uint64
	fn Listener
}

// Option configures a service at construction.
type Option func(*Service)

// WithActions supplies the registry used to resolve named action references.
func WithActions(actions map[string]ActionFunc) Option {
	return func(s *Service) {
		s.registry = actions
	}
}

// WithLogger sets the logger for service lifecycle and action execution.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithID overrides the generated service ID used in logs and spans.
func WithID(id string) Option {
	return func(s *Service) {
		s.id = id
	}
}

// Interpret creates a stopped service bound to a machine. The service holds
// no snapshot until the first Start.
func Interpret(machine *Machine, opts ...Option) *Service {
	service := &Service{
		id:       uuid.NewString(),
		machine:  machine,
		registry: map[string]ActionFunc{},
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// ID returns the service's ID.
func (s *Service) ID() string {
	return s.id
}

// Machine returns the machine this service interprets.
func (s *Service) Machine() *Machine {
	return s.machine
}

// Running reports whether the service is started.
func (s *Service) Running() bool {
	return s.running.Load()
}

// State returns the current snapshot. It is the zero Snapshot before the
// first Start.
func (s *Service) State() Snapshot {
	return s.snapshot
}

// Start sets the snapshot to the machine's initial state, runs that state's
// entry actions in declaration order, and marks the service running. Entry
// actions receive an Event with type InitEventType. Start is silent:
// subscribers are not notified; only Send-triggered transitions notify.
//
// Starting a running service fails with ErrAlreadyStarted. Starting a
// stopped service again re-enters the initial state, so initial entry
// actions run once per successful Start.
//
// If an entry action fails, Start returns the error with the service left
// running at the initial state and earlier entry effects applied, matching
// Send's no-rollback policy. Call Stop to start over.
func (s *Service) Start(ctx context.Context) error {
	if s.running.Load() {
		return ErrAlreadyStarted
	}

	ctx, span := startLifecycleSpan(ctx, "start", s)
	defer span.End()

	s.snapshot = Snapshot{Value: s.machine.initial}
	s.running.Store(true)

	err := s.runActions(ctx, s.machine.initialEntry(), Event{Type: InitEventType}, phaseEntry, s.machine.initial)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	if s.logger != nil {
		s.logger.ServiceStarted(ctx, s.id, s.machine.name, s.machine.initial)
	}

	span.SetStatus(codes.Ok, "started")

	return nil
}

// Send dispatches an event to the service. It is a no-op on a stopped
// service. The bool result reports whether the snapshot was replaced, which
// lets callers distinguish an ignored event from a matched transition.
//
// For an external transition the exit actions of the source run against the
// pre-transition snapshot, then the transition's own actions, then the
// snapshot is replaced, then the destination's entry actions run against
// the post-transition snapshot, then subscribers are notified in
// subscription order. For an internal transition only the transition's own
// actions run; the value is unchanged but the snapshot's Actions field is
// replaced before notification.
//
// An action error propagates to the caller and aborts the remaining steps;
// snapshot updates that already occurred stay in place. There is no
// rollback.
func (s *Service) Send(ctx context.Context, event Event) (bool, error) {
	if !s.running.Load() {
		return false, nil
	}

	from := s.snapshot.Value

	resolution, ok := s.machine.Resolve(from, event)
	if !ok {
		if s.logger != nil {
			s.logger.EventIgnored(ctx, from, event.Type)
		}

		eventsIgnoredTotal.WithLabelValues(
			sanitizeMachine(s.machine.name), from, event.Type,
		).Inc()

		return false, nil
	}

	ctx, span := startSendSpan(ctx, s, from, event.Type)
	defer span.End()

	changed, err := s.applyResolution(ctx, resolution, event, from)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return changed, err
	}

	span.SetAttributes(attribute.String("to", s.snapshot.Value))
	span.SetStatus(codes.Ok, "transitioned")

	return true, nil
}

// applyResolution executes a matched transition's side effects in order.
// The bool result reports whether the snapshot was already replaced, even
// when a later action fails.
func (s *Service) applyResolution(ctx context.Context, res Resolution, event Event, from string) (bool, error) {
	if res.External {
		if err := s.runActions(ctx, res.Exit, event, phaseExit, from); err != nil {
			return false, err
		}

		if err := s.runActions(ctx, res.Actions, event, phaseTransition, from); err != nil {
			return false, err
		}

		s.snapshot = Snapshot{Value: res.Target, Actions: res.Declared}

		if s.logger != nil {
			s.logger.TransitionExecuted(ctx, from, res.Target, event.Type)
		}

		transitionsTotal.WithLabelValues(
			sanitizeMachine(s.machine.name), from, res.Target, event.Type, kindExternal,
		).Inc()

		if err := s.runActions(ctx, res.Entry, event, phaseEntry, res.Target); err != nil {
			return true, err
		}
	} else {
		if err := s.runActions(ctx, res.Actions, event, phaseTransition, from); err != nil {
			return false, err
		}

		s.snapshot = Snapshot{Value: from, Actions: res.Declared}

		if s.logger != nil {
			s.logger.TransitionExecuted(ctx, from, from, event.Type)
		}

		transitionsTotal.WithLabelValues(
			sanitizeMachine(s.machine.name), from, from, event.Type, kindInternal,
		).Inc()
	}

	s.notify()

	return true, nil
}

// Stop marks the service stopped. Exit actions of the current state do not
// run and the last snapshot remains observable. Idempotent.
func (s *Service) Stop(ctx context.Context) {
	if !s.running.Swap(false) {
		return
	}

	if s.logger != nil {
		s.logger.ServiceStopped(ctx, s.id, s.snapshot.Value)
	}
}

// Subscribe appends a listener to the subscriber set and returns its
// handle. Listeners are invoked in subscription order; a listener added
// during a notification takes effect from the next notification onward.
func (s *Service) Subscribe(listener Listener) Subscription {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriberEntry{id: id, fn: listener})

	return Subscription{service: s, id: id}
}

// notify invokes every currently-subscribed listener exactly once with the
// new snapshot. Iteration runs over a copy of the subscriber list so that
// an unsubscribe from within a listener affects only subsequent
// notifications.
func (s *Service) notify() {
	if len(s.subs) == 0 {
		return
	}

	snapshot := s.snapshot
	entries := append([]subscriberEntry(nil), s.subs...)

	for _, entry := range entries {
		entry.fn(snapshot)
	}

	notificationsTotal.WithLabelValues(sanitizeMachine(s.machine.name)).Inc()
}

// runActions resolves and executes action references left-to-right. Named
// references missing from the registry fail with an ActionError wrapping
// ErrUnknownAction; any failure stops execution of the remaining refs.
func (s *Service) runActions(ctx context.Context, refs []ActionRef, event Event, phase, state string) error {
	for _, ref := range refs {
		fn, err := ref.resolve(s.registry)
		if err != nil {
			return WrapActionError(state, ref.Name(), err)
		}

		if s.logger != nil {
			s.logger.ActionStarted(ctx, ref.Name(), state)
		}

		actionCtx, span := startActionSpan(ctx, ref.Name(), state, phase, s)

		start := time.Now()
		err = fn(actionCtx, event)
		elapsed := time.Since(start)

		span.SetAttributes(attribute.Int64("duration_ms", elapsed.Milliseconds()))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "completed")
		}

		span.End()

		if s.logger != nil {
			s.logger.ActionCompleted(ctx, ref.Name(), state, elapsed, err)
		}

		actionDuration.WithLabelValues(
			sanitizeMachine(s.machine.name), ref.Name(), state, phase,
		).Observe(elapsed.Seconds())

		if err != nil {
			return WrapActionError(state, ref.Name(), err)
		}
	}

	return nil
}

// Subscription is the handle returned by Subscribe. Its only operation is
// Unsubscribe.
type Subscription struct {
	service *Service
	id      uint64
}

// Unsubscribe removes the listener from the service's subscriber set.
// Repeated calls are harmless no-ops.
func (u Subscription) Unsubscribe() {
	if u.service == nil {
		return
	}

	subs := u.service.subs
	for i, entry := range subs {
		if entry.id == u.id {
			u.service.subs = append(subs[:i:i], subs[i+1:]...)

			return
		}
	}
}
