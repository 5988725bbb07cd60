package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/university-library-go/library"
)

const (
	// CommandDurationMetric tracks command execution duration.
	CommandDurationMetric = "library_command_duration_seconds"

	// CommandCallsMetric tracks total command calls by outcome.
	CommandCallsMetric = "library_command_calls_total"

	// QueryDurationMetric tracks query execution duration.
	QueryDurationMetric = "library_query_duration_seconds"

	// QueryCallsMetric tracks total query calls by outcome.
	QueryCallsMetric = "library_query_calls_total"

	// CommandRetriesMetric tracks retry attempts of commands, labeled by command type, attempt number and error type.
	CommandRetriesMetric = "library_command_retries_total"

	// CommandRetryDelayMetric tracks the backoff delay before each retry.
	CommandRetryDelayMetric = "library_command_retry_delay_seconds"

	// CommandMaxRetriesReachedMetric tracks commands that exhausted their retries.
	CommandMaxRetriesReachedMetric = "library_command_max_retries_reached_total"

	// StatusSuccess indicates successful completion.
	StatusSuccess = "success"

	// StatusRejected indicates that a business rule refused the operation.
	StatusRejected = "rejected"

	// StatusError indicates an infrastructure failure.
	StatusError = "error"

	// StatusCanceled indicates the operation was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the operation timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// StatusConcurrencyConflict indicates the operation lost against a concurrent write, even after retrying.
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgCommandStarted   = "command started"
	LogMsgCommandCompleted = "command completed"
	LogMsgCommandRejected  = "command rejected"
	LogMsgCommandFailed    = "command failed"
	LogMsgQueryFailed      = "query failed"
	LogMsgCommandRetried   = "command retried"

	LogAttrCommandType = "command_type"
	LogAttrQueryType   = "query_type"
	LogAttrStatus      = "status"
	LogAttrDurationMS  = "duration_ms"
	LogAttrError       = "error"
	LogAttrAttempts    = "attempts"
	LogAttrErrorType   = "error_type"

	// SpanNameCommand is the tracing span name for commands.
	SpanNameCommand = "library.command"

	// SpanNameQuery is the tracing span name for queries.
	SpanNameQuery = "library.query"

	errorTypeNone     = "none"
	errorTypeCanceled = "context_canceled"
	errorTypeTimeout  = "context_deadline_exceeded"
	errorTypeOther    = "other"

	labelAttemptNumber  = "attempt_number"
	labelFinalErrorType = "final_error_type"
)

// Interface aliases for convenience when wiring observability into the feature packages.
type (
	MetricsCollector           = library.MetricsCollector
	ContextualMetricsCollector = library.ContextualMetricsCollector
	TracingCollector           = library.TracingCollector
	SpanContext                = library.SpanContext
	ContextualLogger           = library.ContextualLogger
	Logger                     = library.Logger
)

// StatusOf maps the outcome of an operation to one of the status values above.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, library.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case library.IsDomainError(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// BuildCommandLabels creates standard metric labels for commands.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for queries.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry attempts.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		labelAttemptNumber: fmt.Sprintf("%d", attemptNumber),
		LogAttrErrorType:   errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of a command.
func RecordCommandMetrics(ctx context.Context, collector MetricsCollector, commandType, status string, duration time.Duration) {
	recordCallMetrics(ctx, collector, CommandDurationMetric, CommandCallsMetric, BuildCommandLabels(commandType, status), duration)
}

// RecordQueryMetrics records duration and call count of a query.
func RecordQueryMetrics(ctx context.Context, collector MetricsCollector, queryType, status string, duration time.Duration) {
	recordCallMetrics(ctx, collector, QueryDurationMetric, QueryCallsMetric, BuildQueryLabels(queryType, status), duration)
}

func recordCallMetrics(
	ctx context.Context,
	collector MetricsCollector,
	durationMetric string,
	callsMetric string,
	labels map[string]string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, durationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, callsMetric, labels)
	} else {
		collector.RecordDuration(durationMetric, duration, labels)
		collector.IncrementCounter(callsMetric, labels)
	}
}

// StartSpan starts a tracing span for a command or query.
// Returns the original context and nil if tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	spanName string,
	typeAttr string,
	operationType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, spanName, map[string]string{typeAttr: operationType})
}

// FinishSpan completes a tracing span with the operation outcome.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogInfo logs at info level on whichever logger is configured, preferring the contextual one.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogWarn logs at warn level on whichever logger is configured, preferring the contextual one.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogError logs at error level on whichever logger is configured, preferring the contextual one.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}
