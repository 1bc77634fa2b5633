package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	tracer, closeFn, err := InitTracer(Config{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer closeFn()

	if _, ok := tracer.(opentracing.NoopTracer); !ok {
		t.Fatalf("tracer = %T", tracer)
	}
	span, ctx := Start(context.Background(), "analyze", "BTCUSDT")
	Fail(span, errors.New("boom"))
	Fail(span, nil)
	span.Finish()
	if opentracing.SpanFromContext(ctx) == nil {
		t.Fatalf("span not attached to context")
	}
}
