package shell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/library"
	. "github.com/AntonStoeckl/university-library-go/shell" //nolint:revive
	"github.com/AntonStoeckl/university-library-go/testutil/observability/testdoubles"
)

func Test_StatusOf(t *testing.T) {
	testCases := []struct {
		err      error
		expected string
	}{
		{err: nil, expected: StatusSuccess},
		{err: library.ErrBookNotFound, expected: StatusRejected},
		{err: fmt.Errorf("lend: %w", library.ErrNoStock), expected: StatusRejected},
		{err: library.ErrConcurrencyConflict, expected: StatusConcurrencyConflict},
		{err: context.Canceled, expected: StatusCanceled},
		{err: fmt.Errorf("query: %w", context.DeadlineExceeded), expected: StatusTimeout},
		{err: errors.New("disk full"), expected: StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusOf(tc.err))
		})
	}
}

func Test_ObserveCommand_ShouldRecordSuccess(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	tracing := testdoubles.NewTracingCollectorSpy(true)
	observer := Observer{ContextualLogger: logger, Metrics: metrics, Tracing: tracing}

	// act
	result, err := ObserveCommand(context.Background(), observer, "CreateBook", func(_ context.Context) (string, error) {
		return "created", nil
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "created", result)
	assert.True(t, logger.HasLog("info", LogMsgCommandStarted))
	assert.True(t, logger.HasLog("info", LogMsgCommandCompleted))
	assert.True(t, metrics.HasCounter(CommandCallsMetric, BuildCommandLabels("CreateBook", StatusSuccess)))
	span, found := tracing.FinishedSpan(SpanNameCommand)
	require.True(t, found)
	assert.Equal(t, StatusSuccess, span.Status)
	assert.Equal(t, "CreateBook", span.StartAttributes[LogAttrCommandType])
}

func Test_ObserveCommand_ShouldLogDomainErrorAsRejection(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	observer := Observer{ContextualLogger: logger, Metrics: metrics}

	// act
	_, err := ObserveCommand(context.Background(), observer, "LendBook", func(_ context.Context) (struct{}, error) {
		return struct{}{}, library.ErrNoStock
	})

	// assert
	assert.ErrorIs(t, err, library.ErrNoStock)
	assert.True(t, logger.HasLog("info", LogMsgCommandRejected))
	assert.Empty(t, logger.Records("error"), "Should not log a business rule violation as an error")
	assert.True(t, metrics.HasCounter(CommandCallsMetric, BuildCommandLabels("LendBook", StatusRejected)))
}

func Test_ObserveCommand_ShouldLogInfrastructureFailureAsError(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	observer := Observer{ContextualLogger: logger}

	// act
	_, err := ObserveCommand(context.Background(), observer, "LendBook", func(_ context.Context) (int, error) {
		return 0, errors.New("connection refused")
	})

	// assert
	assert.Error(t, err)
	require.Len(t, logger.Records("error"), 1)
	status, _ := logger.Records("error")[0].Attr(LogAttrStatus)
	assert.Equal(t, StatusError, status)
}

func Test_ObserveCommand_ShouldWork_WithZeroObserver(t *testing.T) {
	// act
	result, err := ObserveCommand(context.Background(), Observer{}, "CreateBook", func(_ context.Context) (int, error) {
		return 42, nil
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 42, result)
}

func Test_ObserveQuery_ShouldOnlyLogFailures(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	observer := Observer{ContextualLogger: logger, Metrics: metrics}

	// act
	_, okErr := ObserveQuery(context.Background(), observer, "GetAllBooks", func(_ context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	_, failErr := ObserveQuery(context.Background(), observer, "GetAllBooks", func(_ context.Context) ([]string, error) {
		return nil, errors.New("connection refused")
	})

	// assert
	assert.NoError(t, okErr)
	assert.Error(t, failErr)
	assert.Equal(t, 1, logger.TotalRecordCount())
	assert.True(t, logger.HasLog("error", LogMsgQueryFailed))
	assert.True(t, metrics.HasDuration(QueryDurationMetric, BuildQueryLabels("GetAllBooks", StatusSuccess)))
	assert.True(t, metrics.HasCounter(QueryCallsMetric, BuildQueryLabels("GetAllBooks", StatusError)))
}

func Test_RetryCommand_ShouldLogRetries(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	observer := Observer{ContextualLogger: logger, Metrics: metrics}
	callCount := 0

	// act
	err := RetryCommand(context.Background(), observer, "ReturnBook", func(_ context.Context) error {
		callCount++
		if callCount == 1 {
			return library.ErrConcurrencyConflict
		}
		return nil
	}, WithBaseDelay(0))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.True(t, logger.HasLog("info", LogMsgCommandRetried))
	assert.True(t, metrics.HasCounter(CommandRetriesMetric, map[string]string{"command_type": "ReturnBook"}))
}
