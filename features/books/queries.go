package books

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/shell"
)

// GetByID fails with library.ErrBookNotFound if the Book does not exist.
func (s Service) GetByID(ctx context.Context, id uuid.UUID) (BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetBook, func(ctx context.Context) (BookView, error) {
		book, err := s.uow.Books().GetByID(ctx, id)
		if err != nil {
			return BookView{}, err
		}

		return ToBookView(book), nil
	})
}

// GetByISBN fails with library.ErrBookNotFound if no Book carries the ISBN.
func (s Service) GetByISBN(ctx context.Context, isbn string) (BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetBookByISBN, func(ctx context.Context) (BookView, error) {
		book, err := s.uow.Books().GetByISBN(ctx, isbn)
		if err != nil {
			return BookView{}, err
		}

		return ToBookView(book), nil
	})
}

// GetAll lists every Book, ordered by title.
func (s Service) GetAll(ctx context.Context) ([]BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetAllBooks, func(ctx context.Context) ([]BookView, error) {
		books, err := s.uow.Books().GetAll(ctx)
		if err != nil {
			return nil, err
		}

		return toBookViews(books), nil
	})
}

// GetByAuthor lists Books whose author contains the substring, ignoring case.
func (s Service) GetByAuthor(ctx context.Context, author string) ([]BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetBooksByAuthor, func(ctx context.Context) ([]BookView, error) {
		books, err := s.uow.Books().GetByAuthor(ctx, author)
		if err != nil {
			return nil, err
		}

		return toBookViews(books), nil
	})
}

// GetByTitle lists Books whose title contains the substring, ignoring case.
func (s Service) GetByTitle(ctx context.Context, title string) ([]BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetBooksByTitle, func(ctx context.Context) ([]BookView, error) {
		books, err := s.uow.Books().GetByTitle(ctx, title)
		if err != nil {
			return nil, err
		}

		return toBookViews(books), nil
	})
}

// GetAvailable lists Books with at least one copy on the shelf.
func (s Service) GetAvailable(ctx context.Context) ([]BookView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetAvailable, func(ctx context.Context) ([]BookView, error) {
		books, err := s.uow.Books().GetAvailable(ctx)
		if err != nil {
			return nil, err
		}

		return toBookViews(books), nil
	})
}
