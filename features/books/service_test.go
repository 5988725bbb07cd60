package books_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/features/books"
	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/testutil/observability/testdoubles"
	. "github.com/AntonStoeckl/university-library-go/testutil/sqlitewrapper" //nolint:revive
)

func newService(t *testing.T, uow library.UnitOfWork, opts ...books.Option) books.Service {
	t.Helper()

	service, err := books.NewService(uow, append([]books.Option{books.WithClock(FixedClock(FixedTime))}, opts...)...)
	require.NoError(t, err, "error in arranging test data")

	return service
}

func Test_NewService_ShouldFail_WithNilUnitOfWork(t *testing.T) {
	// act
	_, err := books.NewService(nil)

	// assert
	assert.ErrorIs(t, err, library.ErrNilUnitOfWork)
}

func Test_Service_Create_ShouldPersistBookAndReturnProjection(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	service := newService(t, store)

	// act
	view, err := service.Create(ctx, books.CreateBookRequest{
		Title:  "  Learning Domain-Driven Design ",
		Author: "Vlad Khononov",
		ISBN:   "978-1-098-10013-1",
		Stock:  2,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Learning Domain-Driven Design", view.Title, "Should trim the input")
	assert.Equal(t, 2, view.Stock)
	assert.True(t, view.Available)
	assert.True(t, FixedTime.Equal(view.CreatedAt), "Should stamp the creation time from the clock")

	persisted, err := store.Books().GetByID(ctx, view.ID)
	assert.NoError(t, err)
	assert.Equal(t, "978-1-098-10013-1", persisted.ISBN)
}

func Test_Service_Create_ShouldAcceptZeroStock(t *testing.T) {
	// arrange
	service := newService(t, NewStore(t))

	// act
	view, err := service.Create(context.Background(), books.CreateBookRequest{
		Title: "Clean Code", Author: "Robert C. Martin", ISBN: "isbn-1", Stock: 0,
	})

	// assert
	assert.NoError(t, err)
	assert.False(t, view.Available)
}

func Test_Service_Create_ShouldFail(t *testing.T) {
	testCases := []struct {
		name        string
		request     books.CreateBookRequest
		expectedErr error
	}{
		{
			name:        "with negative stock",
			request:     books.CreateBookRequest{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "isbn-new", Stock: -1},
			expectedErr: library.ErrInvalidStock,
		},
		{
			name:        "with duplicate ISBN",
			request:     books.CreateBookRequest{Title: "Other", Author: "Someone", ISBN: "isbn-taken", Stock: 1},
			expectedErr: library.ErrDuplicateISBN,
		},
		{
			name:        "with duplicate ISBN before negative stock",
			request:     books.CreateBookRequest{Title: "Other", Author: "Someone", ISBN: "isbn-taken", Stock: -5},
			expectedErr: library.ErrDuplicateISBN,
		},
		{
			name:        "with blank title",
			request:     books.CreateBookRequest{Title: "   ", Author: "Someone", ISBN: "isbn-new", Stock: 1},
			expectedErr: library.ErrInvalidBookData,
		},
		{
			name:        "with missing author",
			request:     books.CreateBookRequest{Title: "Clean Code", ISBN: "isbn-new", Stock: 1},
			expectedErr: library.ErrInvalidBookData,
		},
		{
			name:        "with too long ISBN",
			request:     books.CreateBookRequest{Title: "Clean Code", Author: "Someone", ISBN: strings.Repeat("9", 21), Stock: 1},
			expectedErr: library.ErrInvalidBookData,
		},
		{
			name:        "with too long title",
			request:     books.CreateBookRequest{Title: strings.Repeat("t", 201), Author: "Someone", ISBN: "isbn-new", Stock: 1},
			expectedErr: library.ErrInvalidBookData,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := NewStore(t)
			GivenBook(t, store, "Existing", "isbn-taken", 1)
			service := newService(t, store)

			// act
			_, err := service.Create(ctx, tc.request)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorIs(t, err, library.ErrValidation, "Should belong to the validation family")
			all, err := store.Books().GetAll(ctx)
			assert.NoError(t, err)
			assert.Len(t, all, 1, "Should not persist anything")
		})
	}
}

func Test_Service_Delete_ShouldRemoveBook_WithOnlyReturnedLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	GivenReturnedLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -7), FixedTime)
	service := newService(t, store)

	// act
	err := service.Delete(ctx, book.ID)

	// assert
	assert.NoError(t, err)
	_, err = service.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, library.ErrBookNotFound)
}

func Test_Service_Delete_ShouldFail_WhenBookHasActiveLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 0)
	GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	service := newService(t, store)

	// act
	err := service.Delete(ctx, book.ID)

	// assert
	assert.ErrorIs(t, err, library.ErrBookHasActiveLoans)
	assert.ErrorIs(t, err, library.ErrConflict)
	_, err = service.GetByID(ctx, book.ID)
	assert.NoError(t, err, "Should keep the book")
}

// staleReadUoW hides the loans of every Book locked inside a transaction.
type staleReadUoW struct {
	library.UnitOfWork
}

func (u staleReadUoW) Begin(ctx context.Context) (library.Tx, error) {
	tx, err := u.UnitOfWork.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return staleReadTx{Tx: tx}, nil
}

type staleReadTx struct {
	library.Tx
}

func (t staleReadTx) Books() library.BookRepository {
	return staleReadBooks{BookRepository: t.Tx.Books()}
}

type staleReadBooks struct {
	library.BookRepository
}

func (b staleReadBooks) LockWithLoans(ctx context.Context, id uuid.UUID) (library.Book, error) {
	book, err := b.BookRepository.LockWithLoans(ctx, id)
	book.Loans = nil

	return book, err
}

func Test_Service_Delete_ShouldKeepBook_WhenActiveLoanAppearsAfterTheCheck(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 0)
	loan := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	service := newService(t, staleReadUoW{UnitOfWork: store})

	// act
	err := service.Delete(ctx, book.ID)

	// assert
	assert.ErrorIs(t, err, library.ErrBookHasActiveLoans)
	_, err = store.Books().GetByID(ctx, book.ID)
	assert.NoError(t, err, "Should keep the book")
	_, err = store.Loans().GetByID(ctx, loan.ID)
	assert.NoError(t, err, "Should keep the loan")
}

func Test_Service_Delete_ShouldFail_WhenBookDoesNotExist(t *testing.T) {
	// arrange
	service := newService(t, NewStore(t))

	// act
	err := service.Delete(context.Background(), uuid.New())

	// assert
	assert.ErrorIs(t, err, library.ErrBookNotFound)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func Test_Service_Queries(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	ddd := GivenBook(t, store, "Learning Domain-Driven Design", "isbn-1", 2)
	refactoring := GivenBook(t, store, "Refactoring", "isbn-2", 0)
	service := newService(t, store)

	// act
	all, allErr := service.GetAll(ctx)
	available, availableErr := service.GetAvailable(ctx)
	byTitle, byTitleErr := service.GetByTitle(ctx, "domain")
	byAuthor, byAuthorErr := service.GetByAuthor(ctx, "khononov")
	byISBN, byISBNErr := service.GetByISBN(ctx, "isbn-2")
	byID, byIDErr := service.GetByID(ctx, ddd.ID)

	// assert
	require.NoError(t, allErr)
	require.NoError(t, availableErr)
	require.NoError(t, byTitleErr)
	require.NoError(t, byAuthorErr)
	require.NoError(t, byISBNErr)
	require.NoError(t, byIDErr)

	assert.Len(t, all, 2)
	require.Len(t, available, 1)
	assert.Equal(t, ddd.ID, available[0].ID)
	require.Len(t, byTitle, 1)
	assert.Equal(t, ddd.ID, byTitle[0].ID)
	assert.Len(t, byAuthor, 2, "Should match every book of the fixture author")
	assert.Equal(t, refactoring.ID, byISBN.ID)
	assert.False(t, byISBN.Available)
	assert.Equal(t, ddd.Title, byID.Title)
}

func Test_Service_GetByISBN_ShouldFail_WhenNoBookMatches(t *testing.T) {
	// arrange
	service := newService(t, NewStore(t))

	// act
	_, err := service.GetByISBN(context.Background(), "isbn-404")

	// assert
	assert.ErrorIs(t, err, library.ErrBookNotFound)
}

func Test_Service_Create_ShouldBeObservable(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	service := newService(t, NewStore(t), books.WithContextualLogger(logger), books.WithMetrics(metrics))

	// act
	_, err := service.Create(context.Background(), books.CreateBookRequest{
		Title: "Clean Code", Author: "Robert C. Martin", ISBN: "isbn-1", Stock: 1,
	})

	// assert
	assert.NoError(t, err)
	assert.True(t, logger.HasLog("info", "command completed"))
	assert.True(t, metrics.HasCounter("library_command_calls_total", map[string]string{
		"command_type": "CreateBook",
		"status":       "success",
	}))
}
