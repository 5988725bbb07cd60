package decommission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// Result reports a completed write-off.
type Result struct {
	BookID           uuid.UUID `json:"bookId"`
	Title            string    `json:"title"`
	LiquidatedStock  int       `json:"liquidatedStock"`
	Message          string    `json:"message"`
	DecommissionedAt time.Time `json:"decommissionedAt"`
	Reason           string    `json:"reason,omitempty"`
	Responsible      string    `json:"responsible,omitempty"`
}

// CommandHandler runs the write-off workflow: Begin → load with loans → Decide → Delete → Commit.
type CommandHandler struct {
	uow          library.UnitOfWork
	clock        library.Clock
	observer     shell.Observer
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler or a PreviewHandler.
type Option func(*options) error

type options struct {
	clock        library.Clock
	observer     shell.Observer
	retryOptions []shell.RetryOption
}

// WithClock sets the time source for the reported timestamps.
func WithClock(clock library.Clock) Option {
	return func(o *options) error {
		o.clock = clock
		return nil
	}
}

// WithRetryOptions tunes the backoff of a write-off whose transaction hit a storage conflict.
// The PreviewHandler ignores it.
func WithRetryOptions(retryOptions ...shell.RetryOption) Option {
	return func(o *options) error {
		o.retryOptions = append(o.retryOptions, retryOptions...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger library.Logger) Option {
	return func(o *options) error {
		o.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger library.ContextualLogger) Option {
	return func(o *options) error {
		o.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector library.MetricsCollector) Option {
	return func(o *options) error {
		o.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector library.TracingCollector) Option {
	return func(o *options) error {
		o.observer.Tracing = collector
		return nil
	}
}

func buildOptions(uow library.UnitOfWork, opts []Option) (options, error) {
	if uow == nil {
		return options{}, library.ErrNilUnitOfWork
	}

	o := options{clock: library.SystemClock{}}

	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}

	return o, nil
}

// NewCommandHandler creates a CommandHandler on top of uow.
func NewCommandHandler(uow library.UnitOfWork, opts ...Option) (CommandHandler, error) {
	o, err := buildOptions(uow, opts)
	if err != nil {
		return CommandHandler{}, err
	}

	return CommandHandler{uow: uow, clock: o.clock, observer: o.observer, retryOptions: o.retryOptions}, nil
}

// Handle writes the Book off. It fails with library.ErrBookNotFound or library.ErrBookHasActiveLoans,
// leaving the Book untouched. The Book row stays locked from the check to the commit, so a concurrent
// lend either completes first and blocks the write-off or fails with library.ErrBookNotFound.
// Storage conflicts are retried in a fresh transaction. Any other failure rolls the transaction back
// and is reported joined with library.ErrTransactionFailed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	return shell.ObserveCommand(ctx, h.observer, command.CommandType(), func(ctx context.Context) (Result, error) {
		var result Result

		err := shell.RetryCommand(ctx, h.observer, command.CommandType(), func(ctx context.Context) error {
			return library.RunInTx(ctx, h.uow, func(ctx context.Context, tx library.Tx) error {
				return h.writeOff(ctx, tx, command, &result)
			})
		}, h.retryOptions...)

		if err != nil {
			if library.IsDomainError(err) {
				return Result{}, err
			}

			return Result{}, errors.Join(library.ErrTransactionFailed, err)
		}

		shell.LogInfo(ctx, h.observer.Logger, h.observer.ContextualLogger, logMsgDecommissioned,
			logAttrBookID, result.BookID.String(),
			logAttrLiquidatedStock, result.LiquidatedStock,
			logAttrReason, result.Reason,
			logAttrResponsible, result.Responsible,
		)

		return result, nil
	})
}

func (h CommandHandler) writeOff(ctx context.Context, tx library.Tx, command Command, result *Result) error {
	book, err := tx.Books().LockWithLoans(ctx, command.BookID)
	if err != nil {
		return err
	}

	decision := Decide(book)
	if err = decision.Err(); err != nil {
		return err
	}

	if err = tx.Books().Delete(ctx, book.ID); err != nil {
		return err
	}

	*result = Result{
		BookID:          book.ID,
		Title:           book.Title,
		LiquidatedStock: decision.StockToLiquidate,
		Message: fmt.Sprintf(
			"book %q was decommissioned, %d unit(s) liquidated", book.Title, decision.StockToLiquidate,
		),
		DecommissionedAt: h.clock.Now(),
		Reason:           command.Reason,
		Responsible:      command.Responsible,
	}

	return nil
}

const (
	logMsgDecommissioned = "book decommissioned"

	logAttrBookID          = "book_id"
	logAttrLiquidatedStock = "liquidated_stock"
	logAttrReason          = "reason"
	logAttrResponsible     = "responsible"
)
