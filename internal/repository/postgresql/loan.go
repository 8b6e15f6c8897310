package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.Repository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (employee_id, creditor, installment_amount, installments_total, start_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.EmployeeID, l.Creditor, l.InstallmentAmount, l.InstallmentsTotal, l.StartDate, l.Active,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*loan.Loan, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, creditor, installment_amount, installments_total,
			   start_date, active, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var l loan.Loan
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EmployeeID, &l.Creditor, &l.InstallmentAmount, &l.InstallmentsTotal,
		&l.StartDate, &l.Active, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &l, nil
}

func (r *loanRepository) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]loan.Loan, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, creditor, installment_amount, installments_total,
			   start_date, active, created_at, updated_at
		FROM loans
		WHERE employee_id = $1
	`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		var l loan.Loan
		if err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.Creditor, &l.InstallmentAmount, &l.InstallmentsTotal,
			&l.StartDate, &l.Active, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) SumActiveInstallments(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(installment_amount), 0)
		FROM loans
		WHERE employee_id = $1 AND active = true
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum active installments: %w", err)
	}
	return sum, nil
}

func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET creditor = $2, installment_amount = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := q.QueryRow(ctx, query, l.ID, l.Creditor, l.InstallmentAmount).Scan(&l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ErrLoanNotFound
		}
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return nil
}

func (r *loanRepository) Deactivate(ctx context.Context, id string) error {
	q := database.GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE loans SET active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}
