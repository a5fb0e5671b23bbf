package common

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsTagsAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	scope := StartScope(context.Background(), "Director.ResolveEvent")
	scope.Tag("sessionId", "s-1")
	scope.Tag("severity", 3)
	scope.Tag("success", false)
	scope.Tag("seed", uint64(42))
	scope.Tag("ignored", nil)
	scope.TraceError(errors.New("event not found"))
	scope.Finish()

	if scope.TraceID == "" || scope.Log.Data[traceIDLogField] != scope.TraceID {
		t.Errorf("log is not stamped with the trace id: %v", scope.Log.Data)
	}
	if scope.Log.Data["sessionId"] != "s-1" {
		t.Errorf("tag did not reach the logger: %v", scope.Log.Data)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, expected 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "Director.ResolveEvent" {
		t.Errorf("span name = %s", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("span status = %v, expected error", span.Status().Code)
	}

	want := map[attribute.Key]attribute.Value{
		"sessionId": attribute.StringValue("s-1"),
		"severity":  attribute.IntValue(3),
		"success":   attribute.BoolValue(false),
		"seed":      attribute.StringValue("42"),
	}
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		got[kv.Key] = kv.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attribute %s = %v, expected %v", k, got[k].Emit(), v.Emit())
		}
	}
	if _, ok := got["ignored"]; ok {
		t.Error("nil tag should be skipped")
	}
}

func TestScope_ChildOfIncomingSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, parent := provider.Tracer("rpc").Start(context.Background(), "grpc")
	scope := StartScope(ctx, "Director.StartSession")
	scope.Finish()
	parent.End()

	if scope.TraceID != parent.SpanContext().TraceID().String() {
		t.Error("scope should join the incoming trace")
	}
}
