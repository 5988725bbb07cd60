package sqlengine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine/internal/adapters"
)

// sqlBuilder is implemented by every goqu dataset.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// rowScanner consumes one row of a result set.
type rowScanner func(rows adapters.DBRows) error

// executor runs statements on a pool or a transaction and instruments them.
type executor struct {
	q     adapters.Querier
	store Store
}

// query builds and runs a SELECT and hands every row to scan.
func (e executor) query(ctx context.Context, operation string, builder sqlBuilder, scan rowScanner) error {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		e.store.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, operation)
		e.store.recordErrorMetrics(ctx, operation, errorTypeBuild)

		return errors.Join(ErrBuildingQueryFailed, err)
	}

	ctx, span := e.store.startStatementSpan(ctx, operation)

	start := time.Now()
	rows, err := e.q.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	e.store.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if err != nil {
		return e.failed(ctx, span, operation, logMsgDBQueryFailed, ErrQueryFailed, err, sqlQuery, duration)
	}
	defer e.closeRows(ctx, rows)

	rowCount := 0

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			e.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, operation)
			e.store.recordErrorMetrics(ctx, operation, errorTypeScan)
			e.store.finishStatementSpan(span, statusError, duration, map[string]string{spanAttrErrorType: errorTypeScan})

			return errors.Join(ErrScanningRowFailed, scanErr)
		}

		rowCount++
	}

	if iterErr := rows.Err(); iterErr != nil {
		return e.failed(ctx, span, operation, logMsgDBQueryFailed, ErrQueryFailed, iterErr, sqlQuery, duration)
	}

	e.store.recordStatementMetrics(ctx, operation, statusSuccess, duration)
	e.store.finishStatementSpan(span, statusSuccess, duration, map[string]string{spanAttrRowCount: strconv.Itoa(rowCount)})

	return nil
}

// exec builds and runs an INSERT, UPDATE, or DELETE and returns the number of affected rows.
func (e executor) exec(ctx context.Context, operation string, builder sqlBuilder) (int64, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		e.store.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, operation)
		e.store.recordErrorMetrics(ctx, operation, errorTypeBuild)

		return 0, errors.Join(ErrBuildingQueryFailed, err)
	}

	return e.execSQL(ctx, operation, sqlQuery, args...)
}

// execSQL runs a raw statement and returns the number of affected rows.
func (e executor) execSQL(ctx context.Context, operation, sqlQuery string, args ...any) (int64, error) {
	ctx, span := e.store.startStatementSpan(ctx, operation)

	start := time.Now()
	result, err := e.q.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	e.store.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if err != nil {
		return 0, e.failed(ctx, span, operation, logMsgDBExecFailed, ErrExecFailed, err, sqlQuery, duration)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		e.store.logError(ctx, logMsgRowsAffectedFailed, err, logAttrOperation, operation)
		e.store.finishStatementSpan(span, statusError, duration, map[string]string{spanAttrErrorType: errorTypeDatabase})

		return 0, errors.Join(ErrRowsAffectedFailed, err)
	}

	e.store.recordStatementMetrics(ctx, operation, statusSuccess, duration)
	e.store.finishStatementSpan(span, statusSuccess, duration, map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
	})

	return rowsAffected, nil
}

// failed classifies, logs, and records a driver error and returns it joined with the engine sentinel.
func (e executor) failed(
	ctx context.Context,
	span library.SpanContext,
	operation string,
	message string,
	sentinel error,
	err error,
	sqlQuery string,
	duration time.Duration,
) error {
	classified := classifyDBError(err)
	errorType := errorTypeOf(err)

	if errorType == errorTypeConflict {
		e.store.logOperation(ctx, logMsgConcurrencyConflict, logAttrOperation, operation, logAttrError, err.Error())
	} else {
		e.store.logError(ctx, message, err, logAttrOperation, operation, logAttrQuery, sqlQuery)
	}

	e.store.recordErrorMetrics(ctx, operation, errorType)
	e.store.finishStatementSpan(span, statusError, duration, map[string]string{spanAttrErrorType: errorType})

	return errors.Join(sentinel, classified)
}

// closeRows safely closes database rows and logs any errors.
func (e executor) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.store.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}
