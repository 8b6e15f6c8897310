package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetPayrollEmployees(ctx context.Context, tenantID string, employeeIDs []string) ([]employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.tenant_id, e.registration, e.full_name, e.regime, e.status,
			   e.position, e.department, e.hire_date,
			   sl.base_salary,
			   (SELECT COUNT(*) FROM dependents d
				WHERE d.employee_id = e.id AND d.active = true AND d.tax_eligible = true) AS dependent_count
		FROM employees e
		LEFT JOIN salary_levels sl ON sl.id = e.salary_level_id
		WHERE e.tenant_id = $1 AND e.status = 'ACTIVE'
	`
	args := []interface{}{tenantID}
	if len(employeeIDs) > 0 {
		query += ` AND e.id = ANY($2)`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY e.registration ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	index := make(map[string]int)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.Registration, &e.FullName, &e.Regime, &e.Status,
			&e.Position, &e.Department, &e.HireDate,
			&e.BaseSalary, &e.DependentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		index[e.ID] = len(employees)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return employees, nil
	}

	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}

	loansQuery := `
		SELECT id, employee_id, creditor, installment_amount, installments_total,
			   start_date, active, created_at, updated_at
		FROM loans
		WHERE employee_id = ANY($1) AND active = true
		ORDER BY created_at ASC
	`
	loanRows, err := q.Query(ctx, loansQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee loans: %w", err)
	}
	defer loanRows.Close()

	for loanRows.Next() {
		var l loan.Loan
		if err := loanRows.Scan(
			&l.ID, &l.EmployeeID, &l.Creditor, &l.InstallmentAmount, &l.InstallmentsTotal,
			&l.StartDate, &l.Active, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if i, ok := index[l.EmployeeID]; ok {
			employees[i].Loans = append(employees[i].Loans, l)
		}
	}
	return employees, loanRows.Err()
}

func (r *employeeRepository) GetByID(ctx context.Context, id, tenantID string) (employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.tenant_id, e.registration, e.full_name, e.regime, e.status,
			   e.position, e.department, e.hire_date,
			   sl.base_salary,
			   (SELECT COUNT(*) FROM dependents d
				WHERE d.employee_id = e.id AND d.active = true AND d.tax_eligible = true) AS dependent_count
		FROM employees e
		LEFT JOIN salary_levels sl ON sl.id = e.salary_level_id
		WHERE e.id = $1 AND e.tenant_id = $2
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&e.ID, &e.TenantID, &e.Registration, &e.FullName, &e.Regime, &e.Status,
		&e.Position, &e.Department, &e.HireDate,
		&e.BaseSalary, &e.DependentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}
