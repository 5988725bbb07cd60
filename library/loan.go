package library

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxLoanDays is the lending period. An Active Loan older than this is overdue.
	MaxLoanDays = 30

	// MaxStudentNameLength is the limit for Loan.StudentName, in characters.
	MaxStudentNameLength = 150

	day = 24 * time.Hour
)

// Loan is one copy of a Book lent to a student.
type Loan struct {
	ID          uuid.UUID
	BookID      uuid.UUID
	StudentName string
	LoanDate    time.Time
	ReturnDate  *time.Time
	Status      LoanStatus
	CreatedAt   time.Time

	// Book is only populated by the LoanRepository queries which join the referenced Book.
	// It stays nil for loans whose Book was written off.
	Book *Book
}

// NewLoan builds an Active Loan with a fresh identity, lent at the given time.
func NewLoan(bookID uuid.UUID, studentName string, lentAt time.Time) (Loan, error) {
	if err := ValidateStudentName(studentName); err != nil {
		return Loan{}, err
	}

	lentAt = Normalize(lentAt)

	return Loan{
		ID:          uuid.New(),
		BookID:      bookID,
		StudentName: studentName,
		LoanDate:    lentAt,
		Status:      LoanStatusActive,
		CreatedAt:   lentAt,
	}, nil
}

// ValidateStudentName checks that the name is present and within its limit.
func ValidateStudentName(studentName string) error {
	if err := requireText("student name", studentName, MaxStudentNameLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLoanData, err)
	}

	return nil
}

// IsActive is true while the copy is lent out.
func (l Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsReturned is true once the copy came back.
func (l Loan) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

// CanBeReturned reports whether Return would succeed, i.e. the Loan is still Active.
func (l Loan) CanBeReturned() bool {
	return l.IsActive()
}

// Return moves the Loan to Returned. It fails with ErrAlreadyReturned unless the Loan is Active.
func (l *Loan) Return(at time.Time) error {
	if !l.CanBeReturned() {
		return ErrAlreadyReturned
	}

	at = Normalize(at)
	l.Status = LoanStatusReturned
	l.ReturnDate = &at

	return nil
}

// DueDate is the last moment before the Loan becomes overdue.
func (l Loan) DueDate() time.Time {
	return l.LoanDate.Add(MaxLoanDays * day)
}

// IsOverdue is true for Active loans whose due date lies before now.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate())
}

// DaysOverdue counts the whole days since the due date, zero if the Loan is not overdue.
func (l Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}

	return int(now.Sub(l.DueDate()) / day)
}
