package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
)

type contextValue string

type Code codes.Code

const (
	// Unset is the default status code
	Unset Code = Code(codes.Unset)

	// Error indicates the operation contains an error
	Error Code = Code(codes.Error)

	// Ok indicates the operation completed as expected
	Ok Code = Code(codes.Ok)
)

type Span interface {
	// SetAttribute set attribute (base type)
	SetAttribute(label string, value interface{})

	// AddEvent adds an event
	AddEvent(name string, attributes map[string]interface{})

	// SetStatus set status
	SetStatus(code Code, info string)

	// RecordError records err as an exception span event. An additional
	// call to SetStatus is required if the span status should be Error.
	RecordError(err error)

	// End ends the span
	End()

	// Context returns the context.Context carrying the span
	Context() context.Context
}

// Tracer provides a tracer
type Tracer interface {
	// Start starts a new span
	Start(name string) Span

	// StartWithContext starts a new span with a parent from context
	StartWithContext(ctx context.Context, name string) Span
}

type TracerProvider interface {
	// NewTracer creates a new tracer
	NewTracer(namespace string) Tracer

	// Shutdown shuts down the tracer provider
	Shutdown(context.Context) error
}
