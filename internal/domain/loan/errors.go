package loan

import "errors"

var (
	ErrLoanNotFound   = errors.New("loan not found")
	ErrMarginExceeded = errors.New("payroll-deductible margin exceeded")
)
