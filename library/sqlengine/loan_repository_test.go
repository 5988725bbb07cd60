package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/library"
	. "github.com/AntonStoeckl/university-library-go/testutil/sqlitewrapper" //nolint:revive
)

func Test_LoanRepository_Create_ShouldPersistLoanAndJoinItsBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	loan, err := library.NewLoan(book.ID, "Alice", FixedTime)
	require.NoError(t, err, "error in arranging test data")

	// act
	err = store.Loans().Create(ctx, loan)

	// assert
	assert.NoError(t, err)
	found, err := store.Loans().GetByID(ctx, loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, loan.ID, found.ID)
	assert.Equal(t, book.ID, found.BookID)
	assert.Equal(t, "Alice", found.StudentName)
	assert.Equal(t, library.LoanStatusActive, found.Status)
	assert.True(t, FixedTime.Equal(found.LoanDate), "Should round-trip the loan date")
	assert.Nil(t, found.ReturnDate, "Should have no return date while Active")
	require.NotNil(t, found.Book, "Should join the book")
	assert.Equal(t, "Clean Code", found.Book.Title)
}

func Test_LoanRepository_Create_ShouldFail_WithSecondActiveLoanOfSameStudentForSameBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 2)
	GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	second, err := library.NewLoan(book.ID, "Alice", FixedTime.Add(time.Hour))
	require.NoError(t, err, "error in arranging test data")

	// act
	err = store.Loans().Create(ctx, second)

	// assert
	assert.ErrorIs(t, err, library.ErrDuplicateActiveLoan, "Should be rejected by the partial unique index")
}

func Test_LoanRepository_Create_ShouldAllowNewLoan_AfterPreviousWasReturned(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	GivenReturnedLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -10), FixedTime.AddDate(0, 0, -1))
	again, err := library.NewLoan(book.ID, "Alice", FixedTime)
	require.NoError(t, err, "error in arranging test data")

	// act
	err = store.Loans().Create(ctx, again)

	// assert
	assert.NoError(t, err)
}

func Test_LoanRepository_GetByID_ShouldFail_WhenLoanDoesNotExist(t *testing.T) {
	// arrange
	store := NewStore(t)

	// act
	_, err := store.Loans().GetByID(context.Background(), uuid.New())

	// assert
	assert.ErrorIs(t, err, library.ErrLoanNotFound)
}

func Test_LoanRepository_GetByID_ShouldReturnLoanWithoutBook_WhenBookWasDeleted(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	loan := GivenReturnedLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -3), FixedTime)
	require.NoError(t, store.Books().Delete(ctx, book.ID), "error in arranging test data")

	// act
	found, err := store.Loans().GetByID(ctx, loan.ID)

	// assert
	assert.NoError(t, err, "Should keep the loan history")
	assert.Equal(t, book.ID, found.BookID)
	assert.Nil(t, found.Book)
	require.NotNil(t, found.ReturnDate)
	assert.True(t, FixedTime.Equal(*found.ReturnDate))
}

func Test_LoanRepository_GetAll_ShouldOrderNewestFirst(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	oldest := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -2))
	newest := GivenActiveLoan(t, store, book.ID, "Bob", FixedTime)
	middle := GivenActiveLoan(t, store, book.ID, "Carol", FixedTime.AddDate(0, 0, -1))

	// act
	loans, err := store.Loans().GetAll(context.Background())

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 3)
	assert.Equal(t, newest.ID, loans[0].ID)
	assert.Equal(t, middle.ID, loans[1].ID)
	assert.Equal(t, oldest.ID, loans[2].ID)
}

func Test_LoanRepository_GetByBookID_ShouldOnlyReturnLoansOfTheBook(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	other := GivenBook(t, store, "Refactoring", "isbn-2", 5)
	loan := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	GivenActiveLoan(t, store, other.ID, "Alice", FixedTime)

	// act
	loans, err := store.Loans().GetByBookID(context.Background(), book.ID)

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, loan.ID, loans[0].ID)
}

func Test_LoanRepository_GetByStudentName_ShouldMatchSubstringCaseInsensitively(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	GivenActiveLoan(t, store, book.ID, "Alice Smith", FixedTime)
	GivenReturnedLoan(t, store, book.ID, "Bob Smithers", FixedTime.AddDate(0, 0, -5), FixedTime)
	GivenActiveLoan(t, store, book.ID, "Carol Jones", FixedTime)

	// act
	loans, err := store.Loans().GetByStudentName(context.Background(), "SMITH")

	// assert
	assert.NoError(t, err)
	assert.Len(t, loans, 2, "Should include Active and Returned loans")
}

func Test_LoanRepository_GetActive_ShouldExcludeReturnedLoans(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	active := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	GivenReturnedLoan(t, store, book.ID, "Bob", FixedTime.AddDate(0, 0, -5), FixedTime)

	// act
	loans, err := store.Loans().GetActive(context.Background())

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, active.ID, loans[0].ID)
}

func Test_LoanRepository_GetOverdue_ShouldReturnActiveLoansOlderThanTheLendingPeriod(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	now := FixedTime
	veryLate := GivenActiveLoan(t, store, book.ID, "Alice", now.AddDate(0, 0, -45))
	late := GivenActiveLoan(t, store, book.ID, "Bob", now.AddDate(0, 0, -31))
	GivenActiveLoan(t, store, book.ID, "Carol", now.AddDate(0, 0, -30))
	GivenActiveLoan(t, store, book.ID, "Dave", now.AddDate(0, 0, -1))
	GivenReturnedLoan(t, store, book.ID, "Eve", now.AddDate(0, 0, -60), now.AddDate(0, 0, -2))

	// act
	loans, err := store.Loans().GetOverdue(context.Background(), now, library.MaxLoanDays)

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 2, "Should exclude loans within the period, exactly at its end, and returned loans")
	assert.Equal(t, veryLate.ID, loans[0].ID, "Should order oldest first")
	assert.Equal(t, late.ID, loans[1].ID)
}

func Test_LoanRepository_HasActiveLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)
	GivenReturnedLoan(t, store, book.ID, "Bob", FixedTime.AddDate(0, 0, -5), FixedTime)

	// act
	alice, aliceErr := store.Loans().HasActiveLoan(ctx, book.ID, "Alice")
	bob, bobErr := store.Loans().HasActiveLoan(ctx, book.ID, "Bob")
	carol, carolErr := store.Loans().HasActiveLoan(ctx, book.ID, "Carol")

	// assert
	assert.NoError(t, aliceErr)
	assert.NoError(t, bobErr)
	assert.NoError(t, carolErr)
	assert.True(t, alice)
	assert.False(t, bob, "Should ignore returned loans")
	assert.False(t, carol)
}

func Test_LoanRepository_CountActiveByStudent_ShouldCountOnlyActiveLoansOfExactName(t *testing.T) {
	// arrange
	store := NewStore(t)
	first := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	second := GivenBook(t, store, "Refactoring", "isbn-2", 5)
	third := GivenBook(t, store, "Patterns", "isbn-3", 5)
	GivenActiveLoan(t, store, first.ID, "Alice", FixedTime)
	GivenActiveLoan(t, store, second.ID, "Alice", FixedTime)
	GivenReturnedLoan(t, store, third.ID, "Alice", FixedTime.AddDate(0, 0, -5), FixedTime)
	GivenActiveLoan(t, store, third.ID, "Alice Smith", FixedTime)

	// act
	count, err := store.Loans().CountActiveByStudent(context.Background(), "Alice")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_LoanRepository_GetByDateRange_ShouldIncludeBothBounds(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 5)
	from := FixedTime.AddDate(0, 0, -10)
	to := FixedTime
	atStart := GivenActiveLoan(t, store, book.ID, "Alice", from)
	atEnd := GivenActiveLoan(t, store, book.ID, "Bob", to)
	GivenActiveLoan(t, store, book.ID, "Carol", from.Add(-time.Second))
	GivenActiveLoan(t, store, book.ID, "Dave", to.Add(time.Second))

	// act
	loans, err := store.Loans().GetByDateRange(context.Background(), from, to)

	// assert
	assert.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, atStart.ID, loans[0].ID, "Should order oldest first")
	assert.Equal(t, atEnd.ID, loans[1].ID)
}

func Test_LoanRepository_MarkReturned_ShouldReturnAnActiveLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 0)
	loan := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -3))

	// act
	err := store.Loans().MarkReturned(ctx, loan.ID, FixedTime)

	// assert
	assert.NoError(t, err)
	found, err := store.Loans().GetByID(ctx, loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, library.LoanStatusReturned, found.Status)
	require.NotNil(t, found.ReturnDate)
	assert.True(t, FixedTime.Equal(*found.ReturnDate))
}

func Test_LoanRepository_MarkReturned_ShouldFail_WhenAlreadyReturned(t *testing.T) {
	// arrange
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	loan := GivenReturnedLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -3), FixedTime)

	// act
	err := store.Loans().MarkReturned(context.Background(), loan.ID, FixedTime.Add(time.Hour))

	// assert
	assert.ErrorIs(t, err, library.ErrAlreadyReturned)
}

func Test_LoanRepository_MarkReturned_ShouldFail_WhenLoanDoesNotExist(t *testing.T) {
	// arrange
	store := NewStore(t)

	// act
	err := store.Loans().MarkReturned(context.Background(), uuid.New(), FixedTime)

	// assert
	assert.ErrorIs(t, err, library.ErrLoanNotFound)
}

func Test_LoanRepository_Update_ShouldPersistReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 0)
	loan := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime.AddDate(0, 0, -3))
	require.NoError(t, loan.Return(FixedTime), "error in arranging test data")

	// act
	err := store.Loans().Update(ctx, loan)

	// assert
	assert.NoError(t, err)
	found, err := store.Loans().GetByID(ctx, loan.ID)
	assert.NoError(t, err)
	assert.True(t, found.IsReturned())
}

func Test_LoanRepository_Delete(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := NewStore(t)
	book := GivenBook(t, store, "Clean Code", "isbn-1", 1)
	loan := GivenActiveLoan(t, store, book.ID, "Alice", FixedTime)

	// act
	err := store.Loans().Delete(ctx, loan.ID)
	secondErr := store.Loans().Delete(ctx, loan.ID)

	// assert
	assert.NoError(t, err)
	assert.ErrorIs(t, secondErr, library.ErrLoanNotFound, "Should fail once the loan is gone")
}
