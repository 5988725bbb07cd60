package library_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/library"
)

const day = 24 * time.Hour

func Test_NewLoan_Success(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	bookID := uuid.New()

	// act
	loan, err := library.NewLoan(bookID, "Jane Doe", fakeClock)

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, loan.ID)
	assert.Equal(t, bookID, loan.BookID)
	assert.Equal(t, library.LoanStatusActive, loan.Status)
	assert.Equal(t, fakeClock, loan.LoanDate)
	assert.Equal(t, fakeClock, loan.CreatedAt)
	assert.Nil(t, loan.ReturnDate, "An active loan should have no return date")
}

func Test_NewLoan_ErrorCases(t *testing.T) {
	for name, studentName := range map[string]string{
		"empty name":    "",
		"blank name":    "   ",
		"name too long": strings.Repeat("x", library.MaxStudentNameLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := library.NewLoan(uuid.New(), studentName, time.Unix(0, 0))

			assert.ErrorIs(t, err, library.ErrInvalidLoanData)
		})
	}
}

func Test_Loan_Return_Success(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	loan, err := library.NewLoan(uuid.New(), "Jane Doe", fakeClock)
	require.NoError(t, err)

	// act
	err = loan.Return(fakeClock.Add(time.Hour))

	// assert
	require.NoError(t, err)
	assert.True(t, loan.IsReturned())
	require.NotNil(t, loan.ReturnDate, "A returned loan should have a return date")
	assert.Equal(t, fakeClock.Add(time.Hour), *loan.ReturnDate)
}

func Test_Loan_Return_Error_AlreadyReturned(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	loan, err := library.NewLoan(uuid.New(), "Jane Doe", fakeClock)
	require.NoError(t, err)
	require.NoError(t, loan.Return(fakeClock.Add(time.Hour)))

	// act
	err = loan.Return(fakeClock.Add(2 * time.Hour))

	// assert
	assert.ErrorIs(t, err, library.ErrAlreadyReturned)
	assert.ErrorIs(t, err, library.ErrConflict)
	assert.Equal(t, fakeClock.Add(time.Hour), *loan.ReturnDate, "Return date should not move")
}

func Test_Loan_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name                string
		lentAgo             time.Duration
		returned            bool
		expectedOverdue     bool
		expectedDaysOverdue int
	}{
		{name: "lent 29 days ago", lentAgo: 29 * day, expectedOverdue: false, expectedDaysOverdue: 0},
		{name: "lent exactly 30 days ago", lentAgo: 30 * day, expectedOverdue: false, expectedDaysOverdue: 0},
		{name: "lent 30 days and one hour ago", lentAgo: 30*day + time.Hour, expectedOverdue: true, expectedDaysOverdue: 0},
		{name: "lent 31 days ago", lentAgo: 31 * day, expectedOverdue: true, expectedDaysOverdue: 1},
		{name: "lent 45 days and 20 hours ago", lentAgo: 45*day + 20*time.Hour, expectedOverdue: true, expectedDaysOverdue: 15},
		{name: "returned loan lent 40 days ago", lentAgo: 40 * day, returned: true, expectedOverdue: false, expectedDaysOverdue: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loan, err := library.NewLoan(uuid.New(), "Jane Doe", now.Add(-tc.lentAgo))
			require.NoError(t, err)

			if tc.returned {
				require.NoError(t, loan.Return(now.Add(-day)))
			}

			assert.Equal(t, tc.expectedOverdue, loan.IsOverdue(now))
			assert.Equal(t, tc.expectedDaysOverdue, loan.DaysOverdue(now))
		})
	}
}

func Test_Loan_DueDate(t *testing.T) {
	lentAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := library.Loan{LoanDate: lentAt, Status: library.LoanStatusActive}

	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), loan.DueDate())
}
