package decommission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// BookSummary describes the Book a Preview is about.
type BookSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	ISBN     string    `json:"isbn"`
	Stock    int       `json:"stock"`
	HasStock bool      `json:"hasStock"`
}

// Preview tells whether a write-off would currently succeed.
type Preview struct {
	Book            BookSummary `json:"book"`
	CanDecommission bool        `json:"canDecommission"`
	HasActiveLoans  bool        `json:"hasActiveLoans"`
	ActiveLoanCount int         `json:"activeLoanCount"`
	Message         string      `json:"message"`
	CheckedAt       time.Time   `json:"checkedAt"`
}

// PreviewHandler runs the checks of the write-off without changing anything.
type PreviewHandler struct {
	uow      library.UnitOfWork
	clock    library.Clock
	observer shell.Observer
}

// NewPreviewHandler creates a PreviewHandler on top of uow.
func NewPreviewHandler(uow library.UnitOfWork, opts ...Option) (PreviewHandler, error) {
	o, err := buildOptions(uow, opts)
	if err != nil {
		return PreviewHandler{}, err
	}

	return PreviewHandler{uow: uow, clock: o.clock, observer: o.observer}, nil
}

// Handle fails with library.ErrBookNotFound. A blocked write-off is reported in the Preview, not as an error.
func (h PreviewHandler) Handle(ctx context.Context, bookID uuid.UUID) (Preview, error) {
	return shell.ObserveQuery(ctx, h.observer, queryType, func(ctx context.Context) (Preview, error) {
		book, err := h.uow.Books().GetWithLoans(ctx, bookID)
		if err != nil {
			return Preview{}, err
		}

		decision := Decide(book)

		return Preview{
			Book: BookSummary{
				ID:       book.ID,
				Title:    book.Title,
				Author:   book.Author,
				ISBN:     book.ISBN,
				Stock:    book.Stock,
				HasStock: book.CanBeBorrowed(),
			},
			CanDecommission: decision.Allowed,
			HasActiveLoans:  decision.ActiveLoanCount > 0,
			ActiveLoanCount: decision.ActiveLoanCount,
			Message:         decision.Message,
			CheckedAt:       h.clock.Now(),
		}, nil
	})
}
