package library

// LoanStatus is the lifecycle state of a Loan. The only values are LoanStatusActive and LoanStatusReturned.
type LoanStatus struct {
	name string
}

var (
	LoanStatusActive   = LoanStatus{name: "Active"}
	LoanStatusReturned = LoanStatus{name: "Returned"}
)

// ParseLoanStatus converts the persisted representation back into a LoanStatus.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch s {
	case LoanStatusActive.name:
		return LoanStatusActive, nil
	case LoanStatusReturned.name:
		return LoanStatusReturned, nil
	default:
		return LoanStatus{}, ErrInvalidLoanStatus
	}
}

// String returns the persisted representation, the empty string for the zero value.
func (s LoanStatus) String() string {
	return s.name
}

// IsValid is false only for the zero value.
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusReturned
}
