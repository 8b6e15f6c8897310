package loan

import "context"

type Service interface {
	// CreateLoan registers a consigned loan after checking that the
	// employee's consignable margin is not exceeded.
	CreateLoan(ctx context.Context, req *CreateLoanRequest) (*LoanResponse, error)
	ListEmployeeLoans(ctx context.Context, employeeID string, activeOnly bool) ([]LoanResponse, error)
	UpdateLoan(ctx context.Context, req *UpdateLoanRequest) (*LoanResponse, error)
	DeactivateLoan(ctx context.Context, id string) error
}
