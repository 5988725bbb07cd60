package loans

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
)

// LoanView is the projection of a Loan handed to callers, enriched with its Book and the overdue state.
// The book fields stay empty for loans whose Book was written off.
type LoanView struct {
	ID          uuid.UUID  `json:"id"`
	BookID      uuid.UUID  `json:"bookId"`
	StudentName string     `json:"studentName"`
	LoanDate    time.Time  `json:"loanDate"`
	ReturnDate  *time.Time `json:"returnDate"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	BookTitle   string     `json:"bookTitle,omitempty"`
	BookAuthor  string     `json:"bookAuthor,omitempty"`
	BookISBN    string     `json:"bookIsbn,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	IsOverdue   bool       `json:"isOverdue"`
	DaysOverdue int        `json:"daysOverdue"`
}

// ToLoanView projects loan as seen at now.
func ToLoanView(loan library.Loan, now time.Time) LoanView {
	view := LoanView{
		ID:          loan.ID,
		BookID:      loan.BookID,
		StudentName: loan.StudentName,
		LoanDate:    loan.LoanDate,
		ReturnDate:  loan.ReturnDate,
		Status:      loan.Status.String(),
		CreatedAt:   loan.CreatedAt,
		DueDate:     loan.DueDate(),
		IsOverdue:   loan.IsOverdue(now),
		DaysOverdue: loan.DaysOverdue(now),
	}

	if loan.Book != nil {
		view.BookTitle = loan.Book.Title
		view.BookAuthor = loan.Book.Author
		view.BookISBN = loan.Book.ISBN
	}

	return view
}

func toLoanViews(loans []library.Loan, now time.Time) []LoanView {
	views := make([]LoanView, 0, len(loans))

	for _, loan := range loans {
		views = append(views, ToLoanView(loan, now))
	}

	return views
}
