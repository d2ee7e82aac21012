package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/recallnet/recall-go/versioning"
)

const (
	JaegerContextName contextValue = "jaeger"
)

// newJaegerProvider creates a new jaeger provider
func newJaegerProvider(url string, service string) (*tracesdk.TracerProvider, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
			attribute.String("hostname", hostname),
			attribute.String("version", versioning.Version),
			attribute.String("commit", versioning.Commit),
		)),
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
	)

	return tp, nil
}

// jaegerSpan
type jaegerSpan struct {
	span trace.Span
	ctx  context.Context
}

// SetAttribute sets an attribute
func (s *jaegerSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(attribute.KeyValue{
		Key:   attribute.Key(key),
		Value: convertTypeToAttribute(value),
	})
}

func (s *jaegerSpan) AddEvent(name string, attributes map[string]interface{}) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, attribute.KeyValue{
			Key:   attribute.Key(key),
			Value: convertTypeToAttribute(value),
		})
	}

	s.span.AddEvent(name, trace.WithAttributes(kvs...))
}

func (s *jaegerSpan) SetStatus(code Code, info string) {
	s.span.SetStatus(codes.Code(code), info)
}

func (s *jaegerSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (s *jaegerSpan) End() {
	s.span.End()
}

// Context returns the span context
func (s *jaegerSpan) Context() context.Context {
	return trace.ContextWithSpanContext(s.ctx, s.span.SpanContext())
}

// jaegerTracer
type jaegerTracer struct {
	context context.Context
	tracer  trace.Tracer
}

// Start starts a new span
func (t *jaegerTracer) Start(name string) Span {
	ctx, span := t.tracer.Start(t.context, name)

	return &jaegerSpan{
		span: span,
		ctx:  ctx,
	}
}

// StartWithContext starts a new span with a parent from the context
func (t *jaegerTracer) StartWithContext(ctx context.Context, name string) Span {
	childContext, span := t.tracer.Start(ctx, name)

	return &jaegerSpan{
		span: span,
		ctx:  childContext,
	}
}

// jaegerTracerProvider
type jaegerTracerProvider struct {
	context  context.Context
	provider *tracesdk.TracerProvider
}

// NewTracer creates a new tracer
func (p *jaegerTracerProvider) NewTracer(namespace string) Tracer {
	return &jaegerTracer{
		context: p.context,
		tracer:  p.provider.Tracer(namespace),
	}
}

// Shutdown shuts down the tracer provider
func (p *jaegerTracerProvider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

// NewTracerProvider creates a new jaeger-backed trace provider
func NewTracerProvider(ctx context.Context, url string, service string) (TracerProvider, error) {
	tp, err := newJaegerProvider(url, service)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)

	return &jaegerTracerProvider{
		context:  context.WithValue(ctx, JaegerContextName, JaegerContextName),
		provider: tp,
	}, nil
}
