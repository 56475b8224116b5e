package fsm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fsm"

// startLifecycleSpan creates a span for a service lifecycle operation.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startLifecycleSpan(ctx context.Context, op string, service *Service) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fsm."+op)
	addServiceAttributes(span, service)

	return ctx, span
}

// startSendSpan creates a span for one matched event dispatch.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startSendSpan(ctx context.Context, service *Service, from, event string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fsm.send")
	addServiceAttributes(span, service)
	span.SetAttributes(
		attribute.String("from", from),
		attribute.String("event", event),
	)

	return ctx, span
}

// startActionSpan creates a child span for action execution.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startActionSpan(
	ctx context.Context,
	action string,
	state string,
	phase string,
	service *Service,
) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "action."+action)
	addServiceAttributes(span, service)
	span.SetAttributes(
		attribute.String("action", action),
		attribute.String("state", state),
		attribute.String("phase", phase),
	)

	return ctx, span
}

// addServiceAttributes adds service metadata to a span.
func addServiceAttributes(span trace.Span, service *Service) {
	span.SetAttributes(
		attribute.String("service_id", service.id),
		attribute.String("machine", sanitizeMachine(service.machine.name)),
	)
}
