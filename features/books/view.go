package books

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
)

// BookView is the projection of a Book handed to callers.
type BookView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Stock     int       `json:"stock"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToBookView projects book.
func ToBookView(book library.Book) BookView {
	return BookView{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		Stock:     book.Stock,
		Available: book.CanBeBorrowed(),
		CreatedAt: book.CreatedAt,
	}
}

func toBookViews(books []library.Book) []BookView {
	views := make([]BookView, 0, len(books))

	for _, book := range books {
		views = append(views, ToBookView(book))
	}

	return views
}
