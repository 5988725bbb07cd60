package sqlengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/university-library-go/library"
)

const (
	logMsgBuildQueryFailed    = "failed to build sql query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackTxFailed    = "failed to roll back transaction"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "sqlengine operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrOperation          = "operation"
	logAttrDurationMS         = "duration_ms"

	metricStatementDuration    = "library_storage_statement_duration_seconds"
	metricStatements           = "library_storage_statements_total"
	metricDatabaseErrors       = "library_storage_errors_total"
	metricConcurrencyConflicts = "library_storage_concurrency_conflicts_total"

	spanNamePrefix       = "sqlengine."
	spanAttrOperation    = "operation"
	spanAttrDialect      = "db.system"
	spanAttrRowCount     = "row_count"
	spanAttrRowsAffected = "rows_affected"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"

	labelStatus       = "status"
	labelErrorType    = "error_type"
	statusSuccess     = "success"
	statusError       = "error"
	errorTypeConflict = "concurrency_conflict"
	errorTypeUnique   = "unique_violation"
	errorTypeDatabase = "database"
	errorTypeBuild    = "build_query"
	errorTypeScan     = "scan_row"

	operationBegin    = "begin"
	operationCommit   = "commit"
	operationRollback = "rollback"
	sqlBegin          = "BEGIN"
	sqlCommit         = "COMMIT"
	sqlRollback       = "ROLLBACK"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	} else if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+operation, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (s Store) logOperation(ctx context.Context, operation string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	} else if s.logger != nil {
		s.logger.Info(logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical issues if a logger is configured.
func (s Store) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, allArgs...)
	} else if s.logger != nil {
		s.logger.Warn(message, allArgs...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (s Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	} else if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}
}

// recordStatementMetrics records duration and count of a statement if a metrics collector is configured.
func (s Store) recordStatementMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricStatementDuration, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, metricStatements, labels)
	} else {
		s.metricsCollector.RecordDuration(metricStatementDuration, duration, labels)
		s.metricsCollector.IncrementCounter(metricStatements, labels)
	}
}

// recordErrorMetrics records error metrics if a metrics collector is configured.
func (s Store) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		labelErrorType:    errorType,
	}

	metricName := metricDatabaseErrors
	if errorType == errorTypeConflict {
		metricName = metricConcurrencyConflicts
	}

	if contextualCollector, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricName, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricName, labels)
	}
}

// startStatementSpan starts a tracing span if a tracing collector is configured.
func (s Store) startStatementSpan(ctx context.Context, operation string) (context.Context, library.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   string(s.dialect),
	})
}

// finishStatementSpan finishes a tracing span if a tracing collector is configured.
func (s Store) finishStatementSpan(span library.SpanContext, status string, duration time.Duration, attrs map[string]string) {
	if s.tracingCollector == nil || span == nil {
		return
	}

	if attrs == nil {
		attrs = make(map[string]string, 1)
	}

	attrs[spanAttrDurationMS] = fmt.Sprintf("%.2f", toMilliseconds(duration))

	s.tracingCollector.FinishSpan(span, status, attrs)
}

// errorTypeOf classifies an already classified storage error for metrics and spans.
func errorTypeOf(err error) string {
	switch {
	case isConcurrencyConflict(err):
		return errorTypeConflict
	case isUniqueViolation(err):
		return errorTypeUnique
	default:
		return errorTypeDatabase
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
