package books

import (
	"context"
	"strings"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// CreateBookRequest carries the data of a Book to register.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Stock  int    `json:"stock"`
}

// Create registers a new Book.
//
// The checks run in this order: field validation (ErrInvalidBookData), ISBN uniqueness (ErrDuplicateISBN),
// stock (ErrInvalidStock). A concurrent registration of the same ISBN also ends in ErrDuplicateISBN.
func (s Service) Create(ctx context.Context, req CreateBookRequest) (BookView, error) {
	return shell.ObserveCommand(ctx, s.observer, commandTypeCreateBook, func(ctx context.Context) (BookView, error) {
		title := strings.TrimSpace(req.Title)
		author := strings.TrimSpace(req.Author)
		isbn := strings.TrimSpace(req.ISBN)

		if err := library.ValidateBookFields(title, author, isbn); err != nil {
			return BookView{}, err
		}

		exists, err := s.uow.Books().ISBNExists(ctx, isbn)
		if err != nil {
			return BookView{}, err
		}

		if exists {
			return BookView{}, library.ErrDuplicateISBN
		}

		book, err := library.NewBook(title, author, isbn, req.Stock, s.clock.Now())
		if err != nil {
			return BookView{}, err
		}

		if err = s.uow.Books().Create(ctx, book); err != nil {
			return BookView{}, err
		}

		return ToBookView(book), nil
	})
}
