package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/university-library-go/library/oteladapters"
)

type recordingLogger struct {
	embedded.Logger
	records []otellog.Record
}

func (l *recordingLogger) Emit(_ context.Context, record otellog.Record) {
	l.records = append(l.records, record.Clone())
}

func (l *recordingLogger) Enabled(context.Context, otellog.EnabledParameters) bool {
	return true
}

func attributesOf(record otellog.Record) map[string]string {
	attrs := map[string]string{}

	record.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})

	return attrs
}

func Test_OTelLogger_ShouldEmitOneRecordPerLevel(t *testing.T) {
	// arrange
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	// assert
	require.Len(t, recorder.records, 4)
	expected := []otellog.Severity{otellog.SeverityDebug, otellog.SeverityInfo, otellog.SeverityWarn, otellog.SeverityError}
	for i, severity := range expected {
		assert.Equal(t, severity, recorder.records[i].Severity())
	}
	assert.Equal(t, "info message", recorder.records[1].Body().AsString())
}

func Test_OTelLogger_ShouldConvertArgsToStringAttributes(t *testing.T) {
	// arrange
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(context.Background(), "command completed",
		"command_type", "CreateLoan",
		"duration_ms", 12.5,
		42, "non-string key",
		"dangling",
	)

	// assert
	require.Len(t, recorder.records, 1)
	attrs := attributesOf(recorder.records[0])
	assert.Equal(t, "CreateLoan", attrs["command_type"])
	assert.Equal(t, "12.5", attrs["duration_ms"])
	assert.Len(t, attrs, 2, "Should drop non-string keys and a key without a value")
}

func Test_SlogBridgeLogger_ShouldLogOnAllLevels(t *testing.T) {
	// arrange
	logger := oteladapters.NewSlogBridgeLoggerWithProvider("test", noop.NewLoggerProvider())
	ctx := context.Background()

	// act & assert
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug", "key", "value")
		logger.InfoContext(ctx, "info", "key", "value")
		logger.WarnContext(ctx, "warn", "key", "value")
		logger.ErrorContext(ctx, "error", "key", "value")
	})
	assert.NotNil(t, logger.Slog())
}
