package shell

import (
	"context"
	"time"
)

// Observer bundles the optional observability collaborators of a service.
// The zero value observes nothing.
type Observer struct {
	Logger           Logger
	ContextualLogger ContextualLogger
	Metrics          MetricsCollector
	Tracing          TracingCollector
}

// ObserveCommand runs fn as the command commandType and records its span, metrics and log lines.
// Domain rule violations are logged at info level, infrastructure failures at error level.
func ObserveCommand[T any](ctx context.Context, o Observer, commandType string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := StartSpan(ctx, o.Tracing, SpanNameCommand, LogAttrCommandType, commandType)
	LogInfo(ctx, o.Logger, o.ContextualLogger, LogMsgCommandStarted, LogAttrCommandType, commandType)

	result, err := fn(ctx)

	duration := time.Since(start)
	status := StatusOf(err)

	RecordCommandMetrics(ctx, o.Metrics, commandType, status, duration)
	FinishSpan(o.Tracing, span, status, duration, err)

	args := []any{LogAttrCommandType, commandType, LogAttrStatus, status, LogAttrDurationMS, ToMilliseconds(duration)}

	switch status {
	case StatusSuccess:
		LogInfo(ctx, o.Logger, o.ContextualLogger, LogMsgCommandCompleted, args...)
	case StatusRejected:
		LogInfo(ctx, o.Logger, o.ContextualLogger, LogMsgCommandRejected, append(args, LogAttrError, err.Error())...)
	case StatusCanceled, StatusTimeout:
		LogWarn(ctx, o.Logger, o.ContextualLogger, LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	default:
		LogError(ctx, o.Logger, o.ContextualLogger, LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	}

	return result, err
}

// ObserveQuery runs fn as the query queryType and records its span, metrics and failures.
// Successful queries are not logged.
func ObserveQuery[T any](ctx context.Context, o Observer, queryType string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := StartSpan(ctx, o.Tracing, SpanNameQuery, LogAttrQueryType, queryType)

	result, err := fn(ctx)

	duration := time.Since(start)
	status := StatusOf(err)

	RecordQueryMetrics(ctx, o.Metrics, queryType, status, duration)
	FinishSpan(o.Tracing, span, status, duration, err)

	if status != StatusSuccess && status != StatusRejected {
		LogError(ctx, o.Logger, o.ContextualLogger, LogMsgQueryFailed,
			LogAttrQueryType, queryType, LogAttrStatus, status, LogAttrError, err.Error())
	}

	return result, err
}

// RetryCommand runs fn with RetryWithExponentialBackoff and logs when more than one attempt was needed.
func RetryCommand(ctx context.Context, o Observer, commandType string, fn RetryableFunc, options ...RetryOption) error {
	if o.Metrics != nil {
		options = append([]RetryOption{WithRetryMetrics(o.Metrics, commandType)}, options...)
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, options...)

	if meta.Attempts > 1 {
		LogInfo(ctx, o.Logger, o.ContextualLogger, LogMsgCommandRetried,
			LogAttrCommandType, commandType,
			LogAttrAttempts, meta.Attempts,
			LogAttrErrorType, meta.LastErrorType,
		)
	}

	return err
}
