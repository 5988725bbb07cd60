package library

import (
	"errors"
)

// Error families. Every domain error below unwraps to exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("business rule violated")
)

// NotFound errors.
var (
	ErrBookNotFound = newDomainError(ErrNotFound, "book not found")
	ErrLoanNotFound = newDomainError(ErrNotFound, "loan not found")
)

// Validation errors.
var (
	ErrInvalidStock      = newDomainError(ErrValidation, "stock must not be negative")
	ErrDuplicateISBN     = newDomainError(ErrValidation, "a book with this ISBN already exists")
	ErrInvalidBookData   = newDomainError(ErrValidation, "invalid book data")
	ErrInvalidLoanData   = newDomainError(ErrValidation, "invalid loan data")
	ErrInvalidDateRange  = newDomainError(ErrValidation, "start of date range must not be after its end")
	ErrInvalidLoanStatus = newDomainError(ErrValidation, "invalid loan status")
)

// Conflict errors.
var (
	ErrNoStock             = newDomainError(ErrConflict, "book has no stock available")
	ErrDuplicateActiveLoan = newDomainError(ErrConflict, "student already has an active loan for this book")
	ErrAlreadyReturned     = newDomainError(ErrConflict, "loan was already returned")
	ErrBookHasActiveLoans  = newDomainError(ErrConflict, "book has active loans")
)

// ErrTransactionFailed is returned when a multi-step workflow fails for a reason which is not a domain rule.
// All steps of the workflow have been rolled back.
var ErrTransactionFailed = errors.New("transaction failed, all changes were rolled back")

// ErrConcurrencyConflict is reported by storage when a write lost against a concurrent one
// (serialization failure, deadlock, busy database). Operations failing with it are safe to retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict in storage")

// ErrNilUnitOfWork is returned by constructors that received a nil UnitOfWork.
var ErrNilUnitOfWork = errors.New("unit of work must not be nil")

// domainError is a domain rule violation that belongs to one error family.
type domainError struct {
	family  error
	message string
}

func newDomainError(family error, message string) error {
	return &domainError{family: family, message: message}
}

func (e *domainError) Error() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.family
}

// IsDomainError reports whether err is a NotFound, Validation, or Conflict error.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}
