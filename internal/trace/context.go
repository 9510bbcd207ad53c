package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from ctx, Nop if there is none.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanContext holds current span info for propagation.
type SpanContext struct {
	SpanID uint64
}

type spanCtxKey struct{}

// CurrentSpan retrieves the active span context, zero if not found.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext attaches span context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// Start opens a span under the span stored in ctx and returns a context in
// which the new span is current.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span.ID() == 0 {
		return ctx, span
	}
	return WithSpanContext(ctx, SpanContext{SpanID: span.ID()}), span
}
