package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/wheeltrade/backend/internal/infrastructure/telemetry"
)

// setupTestTracer installs an in-memory span recorder as the global tracer
// provider and returns it with a cleanup function.
func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	cleanup := func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	}
	return sr, cleanup
}

func TestStartSpan(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "deal.accept")
	require.NotNil(t, span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "deal.accept", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartSpan_WithOptions(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "gateway.create_order",
		telemetry.WithAttribute(telemetry.SpanAttrPaymentNumber, "ESC-2026-00007"),
		telemetry.WithSpanKind(trace.SpanKindClient),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(),
		attribute.String(telemetry.SpanAttrPaymentNumber, "ESC-2026-00007"))
}

func TestStartServiceSpan(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartServiceSpan(context.Background(), "escrow", "initiate")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "escrow.initiate", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	dealID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "deal.counter")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDealID, dealID.String(),
		"round", 3,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String(telemetry.SpanAttrDealID, dealID.String()))
	assert.Contains(t, attrs, attribute.Int("round", 3))
}

func TestSetAttributes_OddKeyValues(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test.odd")
	telemetry.SetAttributes(span, "key_only")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Attributes())
}

func TestSetAttributes_NonStringKey(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test.badkey")
	telemetry.SetAttributes(span, 42, "value", "good_key", "good_value")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("good_key", "good_value"))
}

func TestRecordError(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "escrow.webhook")
	telemetry.RecordError(span, errors.New("signature mismatch"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "signature mismatch", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestRecordError_NilError(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test.noerr")
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Empty(t, spans[0].Events())
}

func TestAddEvent(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "escrow.initiate")
	telemetry.AddEvent(span, "escrow_initiated",
		telemetry.SpanAttrPaymentNumber, "ESC-2026-00009",
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	event := spans[0].Events()[0]
	assert.Equal(t, "escrow_initiated", event.Name)
	assert.Contains(t, event.Attributes,
		attribute.String(telemetry.SpanAttrPaymentNumber, "ESC-2026-00009"))
}

func TestGetTraceID(t *testing.T) {
	_, cleanup := setupTestTracer(t)
	defer cleanup()

	// No span in context
	assert.Empty(t, telemetry.GetTraceID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "test.traceid")
	defer span.End()

	traceID := telemetry.GetTraceID(ctx)
	assert.Len(t, traceID, 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
}

func TestWithAttribute_Types(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	id := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "test.types",
		telemetry.WithAttribute("str", "value"),
		telemetry.WithAttribute("int", 7),
		telemetry.WithAttribute("int64", int64(9)),
		telemetry.WithAttribute("float", 1.5),
		telemetry.WithAttribute("bool", true),
		telemetry.WithAttribute("slice", []string{"a", "b"}),
		telemetry.WithAttribute("stringer", id),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String("str", "value"))
	assert.Contains(t, attrs, attribute.Int("int", 7))
	assert.Contains(t, attrs, attribute.Int64("int64", 9))
	assert.Contains(t, attrs, attribute.Float64("float", 1.5))
	assert.Contains(t, attrs, attribute.Bool("bool", true))
	assert.Contains(t, attrs, attribute.StringSlice("slice", []string{"a", "b"}))
	assert.Contains(t, attrs, attribute.String("stringer", id.String()))
}
