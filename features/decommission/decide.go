package decommission

import (
	"fmt"

	"github.com/AntonStoeckl/university-library-go/library"
)

// Decision is the outcome of Decide.
type Decision struct {
	Allowed          bool
	ActiveLoanCount  int
	StockToLiquidate int
	Message          string
}

// Decide checks whether book, loaded with all its loans, may be written off.
// A single Active loan blocks the write-off.
func Decide(book library.Book) Decision {
	activeLoans := book.ActiveLoanCount()

	if activeLoans > 0 {
		return Decision{
			Allowed:          false,
			ActiveLoanCount:  activeLoans,
			StockToLiquidate: book.Stock,
			Message: fmt.Sprintf(
				"book %q cannot be decommissioned: %d active loan(s) must be returned first",
				book.Title, activeLoans,
			),
		}
	}

	return Decision{
		Allowed:          true,
		StockToLiquidate: book.Stock,
		Message:          fmt.Sprintf("book %q can be decommissioned, %d unit(s) will be liquidated", book.Title, book.Stock),
	}
}

// Err returns library.ErrBookHasActiveLoans for a blocked write-off, nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	return fmt.Errorf("%w: %d active loan(s)", library.ErrBookHasActiveLoans, d.ActiveLoanCount)
}
