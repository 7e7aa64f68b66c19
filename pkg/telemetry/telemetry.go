// Package telemetry adapts OpenTelemetry tracers to fsm.Trace and provides an in-memory
// TracerProvider for tests and the demo.
package telemetry

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	fsm "github.com/stateforward/go-fsm"
)

const Instrumentation = "github.com/stateforward/go-fsm"

// New returns a Trace that opens one span per step named "fsm.<step>". Without a tracer
// it uses the global provider.
func New(maybeTracer ...trace.Tracer) fsm.Trace {
	var tracer trace.Tracer
	if len(maybeTracer) > 0 && maybeTracer[0] != nil {
		tracer = maybeTracer[0]
	} else {
		tracer = otel.Tracer(Instrumentation)
	}
	return func(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
		ctx, span := tracer.Start(ctx, "fsm."+step, trace.WithAttributes(attrs...))
		return ctx, func(err error) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
	}
}

/******* Provider *******/

// Provider keeps every ended span in memory.
type Provider struct {
	trace.TracerProvider

	mu    sync.Mutex
	spans []*Span
}

func NewProvider() *Provider {
	return &Provider{}
}

func (provider *Provider) Tracer(name string, options ...trace.TracerOption) trace.Tracer {
	return &Tracer{provider: provider, name: name}
}

// Spans returns the ended spans in the order they ended.
func (provider *Provider) Spans() []*Span {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	return slices.Clone(provider.spans)
}

func (provider *Provider) Reset() {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	provider.spans = nil
}

type Tracer struct {
	trace.Tracer
	provider *Provider
	name     string
}

func (tracer *Tracer) Start(ctx context.Context, name string, options ...trace.SpanStartOption) (context.Context, trace.Span) {
	config := trace.NewSpanStartConfig(options...)
	span := &Span{
		provider:   tracer.provider,
		Name:       name,
		Scope:      tracer.name,
		Attributes: slices.Clone(config.Attributes()),
	}
	if parent, ok := trace.SpanFromContext(ctx).(*Span); ok {
		span.Parent = parent.Name
	}
	return trace.ContextWithSpan(ctx, span), span
}

type Span struct {
	trace.Span
	provider *Provider

	Name        string
	Scope       string
	Parent      string
	Attributes  []attribute.KeyValue
	Errors      []error
	Status      codes.Code
	Description string
}

// Attribute returns the value of the attribute named key.
func (span *Span) Attribute(key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func (span *Span) End(options ...trace.SpanEndOption) {
	span.provider.mu.Lock()
	defer span.provider.mu.Unlock()
	span.provider.spans = append(span.provider.spans, span)
}

func (span *Span) AddEvent(name string, options ...trace.EventOption) {}
func (span *Span) AddLink(link trace.Link)                            {}
func (span *Span) IsRecording() bool                                  { return true }
func (span *Span) RecordError(err error, options ...trace.EventOption) {
	span.Errors = append(span.Errors, err)
}
func (span *Span) SetAttributes(kv ...attribute.KeyValue) {
	span.Attributes = append(span.Attributes, kv...)
}
func (span *Span) SetName(name string) { span.Name = name }
func (span *Span) SetStatus(code codes.Code, description string) {
	span.Status = code
	span.Description = description
}
func (span *Span) SpanContext() trace.SpanContext       { return trace.SpanContext{} }
func (span *Span) TracerProvider() trace.TracerProvider { return span.provider }
