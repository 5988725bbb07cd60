// Package library provides the core types of the university library backend:
// Books, Loans, the persistence ports the domain services depend on, and the error taxonomy.
//
// The entity layer carries the invariant-checking behavior:
//   - Book.Stock never drops below zero
//   - a Loan moves from Active to Returned exactly once, and ReturnDate is set iff it is Returned
//   - a Loan is overdue once it is Active for longer than MaxLoanDays
//
// Storage is abstract. A UnitOfWork exposes auto-committing repositories and opens explicit
// transactions; RunInTx guarantees that every transaction is either committed or rolled back,
// including on error and panic paths.
//
// Errors are grouped in three families which callers can test with errors.Is:
//
//	errors.Is(err, library.ErrNotFound)     // ErrBookNotFound, ErrLoanNotFound
//	errors.Is(err, library.ErrValidation)   // ErrInvalidStock, ErrDuplicateISBN, ...
//	errors.Is(err, library.ErrConflict)     // ErrNoStock, ErrDuplicateActiveLoan, ...
//
// Multi-step workflows that fail unexpectedly surface ErrTransactionFailed.
//
// Common usage pattern:
//
//	err := library.RunInTx(ctx, uow, func(ctx context.Context, tx library.Tx) error {
//		book, err := tx.Books().GetByID(ctx, bookID)
//		if err != nil {
//			return err
//		}
//
//		if err := book.DecreaseStock(); err != nil {
//			return err
//		}
//
//		return tx.Books().AdjustStock(ctx, book.ID, -1)
//	})
package library
