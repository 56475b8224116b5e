package fsm

import (
	"context"
	"log/slog"
	"time"
)

// Logger provides logging hooks for service lifecycle and action execution.
type Logger interface {
	ServiceStarted(ctx context.Context, serviceID, machine, initial string)
	ServiceStopped(ctx context.Context, serviceID, state string)
	TransitionExecuted(ctx context.Context, from, to, event string)
	EventIgnored(ctx context.Context, state, event string)
	ActionStarted(ctx context.Context, action, state string)
	ActionCompleted(ctx context.Context, action, state string, duration time.Duration, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger backed by slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		logger: slog.Default(),
	}
}

// NewSlogLogger creates a logger backed by the given slog logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) ServiceStarted(ctx context.Context, serviceID, machine, initial string) {
	l.logger.InfoContext(ctx, "Service started",
		"service_id", serviceID,
		"machine", machine,
		"initial", initial,
	)
}

func (l *DefaultLogger) ServiceStopped(ctx context.Context, serviceID, state string) {
	l.logger.InfoContext(ctx, "Service stopped",
		"service_id", serviceID,
		"state", state,
	)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, from, to, event string) {
	l.logger.InfoContext(ctx, "Transition executed",
		"from", from,
		"to", to,
		"event", event,
	)
}

func (l *DefaultLogger) EventIgnored(ctx context.Context, state, event string) {
	l.logger.DebugContext(ctx, "Event ignored",
		"state", state,
		"event", event,
	)
}

func (l *DefaultLogger) ActionStarted(ctx context.Context, action, state string) {
	l.logger.InfoContext(ctx, "Action started",
		"action", action,
		"state", state,
	)
}

func (l *DefaultLogger) ActionCompleted(ctx context.Context, action, state string, duration time.Duration, err error) {
	if err != nil {
		l.logger.ErrorContext(ctx, "Action completed with error",
			"action", action,
			"state", state,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		l.logger.InfoContext(ctx, "Action completed",
			"action", action,
			"state", state,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
