package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan - an active payroll-deductible loan (consignado). Only active
// loans participate in payroll calculation.
type Loan struct {
	ID                string
	EmployeeID        string
	Creditor          string
	InstallmentAmount decimal.Decimal
	InstallmentsTotal int
	StartDate         time.Time
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
