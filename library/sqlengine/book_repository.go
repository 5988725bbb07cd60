package sqlengine

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine/internal/adapters"
)

const (
	operationGetBook       = "books.get"
	operationLockBook      = "books.lock"
	operationListBooks     = "books.list"
	operationCountBooks    = "books.count"
	operationInsertBook    = "books.insert"
	operationUpdateBook    = "books.update"
	operationDeleteBook    = "books.delete"
	operationAdjustStock   = "books.adjust_stock"
	likeEscapeCharacter    = `\`
	caseInsensitiveLikeSQL = `LOWER(?) LIKE LOWER(?) ESCAPE '\'`
)

type bookRepository struct {
	exec executor
}

func (r bookRepository) GetByID(ctx context.Context, id uuid.UUID) (library.Book, error) {
	return r.getOne(ctx, goqu.C(colID).Eq(id.String()))
}

func (r bookRepository) GetAll(ctx context.Context) ([]library.Book, error) {
	return r.list(ctx)
}

func (r bookRepository) GetByISBN(ctx context.Context, isbn string) (library.Book, error) {
	return r.getOne(ctx, goqu.C(colISBN).Eq(isbn))
}

func (r bookRepository) GetByAuthor(ctx context.Context, authorSubstring string) ([]library.Book, error) {
	return r.list(ctx, containsIgnoringCase(goqu.C(colAuthor), authorSubstring))
}

func (r bookRepository) GetByTitle(ctx context.Context, titleSubstring string) ([]library.Book, error) {
	return r.list(ctx, containsIgnoringCase(goqu.C(colTitle), titleSubstring))
}

func (r bookRepository) GetAvailable(ctx context.Context) ([]library.Book, error) {
	return r.list(ctx, goqu.C(colStock).Gt(0))
}

func (r bookRepository) GetWithLoans(ctx context.Context, id uuid.UUID) (library.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return library.Book{}, err
	}

	loans, err := loanRepository(r).GetByBookID(ctx, id)
	if err != nil {
		return library.Book{}, err
	}

	book.Loans = loans

	return book, nil
}

// LockWithLoans selects the book row FOR UPDATE before loading its loans.
// SQLite renders no locking clause; its single writer serializes the transactions instead.
func (r bookRepository) LockWithLoans(ctx context.Context, id uuid.UUID) (library.Book, error) {
	ds := r.selectBooks(goqu.C(colID).Eq(id.String())).ForUpdate(exp.Wait)

	books, err := r.scanBooks(ctx, operationLockBook, ds)
	if err != nil {
		return library.Book{}, err
	}

	if len(books) == 0 {
		return library.Book{}, library.ErrBookNotFound
	}

	loans, err := loanRepository(r).GetByBookID(ctx, id)
	if err != nil {
		return library.Book{}, err
	}

	book := books[0]
	book.Loans = loans

	return book, nil
}

func (r bookRepository) Create(ctx context.Context, book library.Book) error {
	ds := r.exec.store.builder.
		Insert(tableBooks).
		Prepared(true).
		Rows(goqu.Record{
			colID:        book.ID.String(),
			colTitle:     book.Title,
			colAuthor:    book.Author,
			colISBN:      book.ISBN,
			colStock:     book.Stock,
			colCreatedAt: timestampArg(book.CreatedAt),
		})

	if _, err := r.exec.exec(ctx, operationInsertBook, ds); err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return errors.Join(library.ErrDuplicateISBN, err)
		}

		return err
	}

	return nil
}

func (r bookRepository) Update(ctx context.Context, book library.Book) error {
	ds := r.exec.store.builder.
		Update(tableBooks).
		Prepared(true).
		Set(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colISBN:   book.ISBN,
			colStock:  book.Stock,
		}).
		Where(goqu.C(colID).Eq(book.ID.String()))

	rowsAffected, err := r.exec.exec(ctx, operationUpdateBook, ds)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return errors.Join(library.ErrDuplicateISBN, err)
		}

		return err
	}

	if rowsAffected == 0 {
		return library.ErrBookNotFound
	}

	return nil
}

func (r bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	activeLoans := r.exec.store.builder.
		From(loansTable).
		Select(goqu.L("1")).
		Where(loansTable.Col(colBookID).Eq(booksTable.Col(colID)), isActive())

	ds := r.exec.store.builder.
		Delete(tableBooks).
		Prepared(true).
		Where(
			goqu.C(colID).Eq(id.String()),
			goqu.L("NOT EXISTS ?", activeLoans),
		)

	rowsAffected, err := r.exec.exec(ctx, operationDeleteBook, ds)
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	count, err := r.count(ctx, goqu.C(colID).Eq(id.String()))
	if err != nil {
		return err
	}

	if count == 0 {
		return library.ErrBookNotFound
	}

	return library.ErrBookHasActiveLoans
}

func (r bookRepository) ISBNExists(ctx context.Context, isbn string) (bool, error) {
	count, err := r.count(ctx, goqu.C(colISBN).Eq(isbn))
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r bookRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	ds := r.exec.store.builder.
		Update(tableBooks).
		Prepared(true).
		Set(goqu.Record{colStock: goqu.L("? + ?", goqu.C(colStock), delta)}).
		Where(
			goqu.C(colID).Eq(id.String()),
			goqu.L("? + ? >= 0", goqu.C(colStock), delta),
		)

	rowsAffected, err := r.exec.exec(ctx, operationAdjustStock, ds)
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	count, err := r.count(ctx, goqu.C(colID).Eq(id.String()))
	if err != nil {
		return err
	}

	if count == 0 {
		return library.ErrBookNotFound
	}

	return library.ErrNoStock
}

func (r bookRepository) getOne(ctx context.Context, where exp.Expression) (library.Book, error) {
	books, err := r.list(ctx, where)
	if err != nil {
		return library.Book{}, err
	}

	if len(books) == 0 {
		return library.Book{}, library.ErrBookNotFound
	}

	return books[0], nil
}

func (r bookRepository) list(ctx context.Context, where ...exp.Expression) ([]library.Book, error) {
	ds := r.selectBooks(where...).Order(goqu.C(colTitle).Asc(), goqu.C(colID).Asc())

	return r.scanBooks(ctx, operationListBooks, ds)
}

func (r bookRepository) selectBooks(where ...exp.Expression) *goqu.SelectDataset {
	return r.exec.store.builder.
		From(tableBooks).
		Prepared(true).
		Select(colID, colTitle, colAuthor, colISBN, colStock, colCreatedAt).
		Where(where...)
}

func (r bookRepository) scanBooks(ctx context.Context, operation string, ds *goqu.SelectDataset) ([]library.Book, error) {
	books := make([]library.Book, 0)

	err := r.exec.query(ctx, operation, ds, func(rows adapters.DBRows) error {
		var book library.Book
		var createdAt timestamp

		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN, &book.Stock, &createdAt); err != nil {
			return err
		}

		book.CreatedAt = createdAt.Time
		books = append(books, book)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

func (r bookRepository) count(ctx context.Context, where ...exp.Expression) (int64, error) {
	ds := r.exec.store.builder.
		From(tableBooks).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...)

	var count int64

	err := r.exec.query(ctx, operationCountBooks, ds, func(rows adapters.DBRows) error {
		return rows.Scan(&count)
	})

	return count, err
}

// containsIgnoringCase matches values containing substring, case-insensitively and with LIKE wildcards escaped.
func containsIgnoringCase(column exp.Expression, substring string) exp.Expression {
	escaped := strings.NewReplacer(
		likeEscapeCharacter, likeEscapeCharacter+likeEscapeCharacter,
		"%", likeEscapeCharacter+"%",
		"_", likeEscapeCharacter+"_",
	).Replace(substring)

	return goqu.L(caseInsensitiveLikeSQL, column, "%"+escaped+"%")
}
