package library

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits of a Book, in characters.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 150
	MaxISBNLength   = 20
)

// Book is a catalog entry. Stock is the number of copies currently on the shelf.
type Book struct {
	ID        uuid.UUID
	Title     string
	Author    string
	ISBN      string
	Stock     int
	CreatedAt time.Time

	// Loans is only populated by BookRepository.GetWithLoans.
	Loans []Loan
}

// NewBook builds a Book with a fresh identity after validating its fields and stock.
func NewBook(title, author, isbn string, stock int, createdAt time.Time) (Book, error) {
	if err := ValidateBookFields(title, author, isbn); err != nil {
		return Book{}, err
	}

	if stock < 0 {
		return Book{}, ErrInvalidStock
	}

	return Book{
		ID:        uuid.New(),
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Stock:     stock,
		CreatedAt: Normalize(createdAt),
	}, nil
}

// ValidateBookFields checks that every text field is present and within its limit.
func ValidateBookFields(title, author, isbn string) error {
	if err := requireText("title", title, MaxTitleLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBookData, err)
	}

	if err := requireText("author", author, MaxAuthorLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBookData, err)
	}

	if err := requireText("isbn", isbn, MaxISBNLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBookData, err)
	}

	return nil
}

// CanBeBorrowed is true while at least one copy is on the shelf.
func (b Book) CanBeBorrowed() bool {
	return b.Stock > 0
}

// DecreaseStock takes one copy off the shelf.
func (b *Book) DecreaseStock() error {
	if b.Stock <= 0 {
		return ErrNoStock
	}

	b.Stock--

	return nil
}

// IncreaseStock puts one copy back on the shelf.
func (b *Book) IncreaseStock() {
	b.Stock++
}

// HasActiveLoans inspects the eager-loaded Loans.
func (b Book) HasActiveLoans() bool {
	return b.ActiveLoanCount() > 0
}

// ActiveLoanCount counts the eager-loaded Loans with status Active.
func (b Book) ActiveLoanCount() int {
	count := 0

	for _, loan := range b.Loans {
		if loan.IsActive() {
			count++
		}
	}

	return count
}

func requireText(field, value string, maxLength int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}

	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must not exceed %d characters", field, maxLength)
	}

	return nil
}
