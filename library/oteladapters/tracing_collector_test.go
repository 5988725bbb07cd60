package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/university-library-go/library/oteladapters"
)

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func newTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func attributeOf(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_ShouldRecordStartAndFinishAttributes(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "library.command", map[string]string{"command_type": "CreateBook"})
	span.AddAttribute("book_id", "42")
	collector.FinishSpan(span, "success", map[string]string{"duration_ms": "1.50"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "library.command", spans[0].Name)
	for key, expected := range map[string]string{
		"command_type":    "CreateBook",
		"book_id":         "42",
		"duration_ms":     "1.50",
		"library.outcome": "success",
	} {
		value, found := attributeOf(spans[0], key)
		assert.True(t, found, "Should carry attribute "+key)
		assert.Equal(t, expected, value)
	}
}

func Test_TracingCollector_FinishSpan_ShouldMapStatuses(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "rejected", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Error},
		{status: "timeout", expectedCode: codes.Error},
		{status: "concurrency_conflict", expectedCode: codes.Error},
		{status: "something_else", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, exporter := newTracingCollector()
			_, span := collector.StartSpan(context.Background(), "library.query", nil)

			// act
			collector.FinishSpan(span, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_StartSpan_ShouldNestUnderTheSpanInContext(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()
	ctx, parent := collector.StartSpan(context.Background(), "library.command", nil)

	// act
	_, child := collector.StartSpan(ctx, "sqlengine.books.insert", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID(), "Should link the child to its parent")
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
}

func Test_TracingCollector_FinishSpan_ShouldIgnoreForeignSpanContexts(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	collector.FinishSpan(foreignSpanContext{}, "success", nil)

	// assert
	assert.Empty(t, exporter.GetSpans())
}
