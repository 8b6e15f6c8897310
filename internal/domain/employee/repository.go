package employee

import "context"

// Repository is the read-only contract against the employee registry.
type Repository interface {
	// GetPayrollEmployees loads active employees of the tenant with
	// salary level, active loans and tax-eligible dependent counts.
	// An empty employeeIDs slice means all active employees.
	GetPayrollEmployees(ctx context.Context, tenantID string, employeeIDs []string) ([]Employee, error)
	GetByID(ctx context.Context, id, tenantID string) (Employee, error)
}
