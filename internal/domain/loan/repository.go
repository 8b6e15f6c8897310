package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id string) (*Loan, error)
	ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Loan, error)
	// SumActiveInstallments returns the sum of installment amounts over the
	// employee's active loans.
	SumActiveInstallments(ctx context.Context, employeeID string) (decimal.Decimal, error)
	Update(ctx context.Context, l *Loan) error
	Deactivate(ctx context.Context, id string) error
}
