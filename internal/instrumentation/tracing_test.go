package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartGoogleAPISpan(context.Background(), ServiceMeet, OperationCreateSpace)
	if GetTraceID(ctx) == "" {
		t.Error("expected a trace ID inside the span context")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	got := ended[0]
	if got.Name() != "google.meet.create_space" {
		t.Errorf("expected span name 'google.meet.create_space', got %q", got.Name())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", got.Status().Code)
	}

	attrs := make(map[string]string)
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	if attrs[SpanAttrService] != ServiceMeet {
		t.Errorf("expected service attribute %q, got %q", ServiceMeet, attrs[SpanAttrService])
	}
	if attrs[SpanAttrOperation] != OperationCreateSpace {
		t.Errorf("expected operation attribute %q, got %q", OperationCreateSpace, attrs[SpanAttrOperation])
	}
}

func TestStartHTTPSpan(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartHTTPSpan(context.Background(), "GET", "/healthz")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "GET /healthz" {
		t.Errorf("expected span name 'GET /healthz', got %q", ended[0].Name())
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartSpan(context.Background(), "test-span")
	SetSpanError(span, nil) // nil error leaves the status unset
	SetSpanError(span, errors.New("test error"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", ended[0].Status().Code)
	}
	if ended[0].Status().Description != "test error" {
		t.Errorf("expected description 'test error', got %q", ended[0].Status().Description)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if traceID := GetTraceID(context.Background()); traceID != "" {
		t.Errorf("expected empty trace ID for context without span, got %q", traceID)
	}
}
