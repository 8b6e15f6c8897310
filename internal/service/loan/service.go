package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type LoanServiceImpl struct {
	loanRepo     loan.Repository
	employeeRepo employee.Repository
	payrollRepo  payroll.Repository
	logger       *slog.Logger
}

func NewLoanService(
	loanRepo loan.Repository,
	employeeRepo employee.Repository,
	payrollRepo payroll.Repository,
	logger *slog.Logger,
) loan.Service {
	return &LoanServiceImpl{
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		logger:       logger,
	}
}

func getClaimsFromContext(ctx context.Context) (tenantID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", fmt.Errorf("tenant_id claim is missing or invalid")
	}

	return tenantID, nil
}

// getOrCreateConfig loads the tenant config, seeding country defaults
// on first access. The margin guard must work for tenants that never
// touched payroll settings.
func (s *LoanServiceImpl) getOrCreateConfig(ctx context.Context, tenantID string) (payroll.PayrollConfig, error) {
	cfg, err := s.payrollRepo.GetConfig(ctx, tenantID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, payroll.ErrConfigNotFound) {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	created, err := s.payrollRepo.UpsertConfig(ctx, payroll.DefaultConfig(tenantID))
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to create default payroll config: %w", err)
	}
	s.logger.Info("seeded default payroll config", "tenant_id", tenantID)
	return created, nil
}

func (s *LoanServiceImpl) CreateLoan(ctx context.Context, req *loan.CreateLoanRequest) (*loan.LoanResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, tenantID)
	if err != nil {
		return nil, err
	}
	if emp.BaseSalary == nil {
		return nil, payroll.ErrNoSalaryLevel
	}

	cfg, err := s.getOrCreateConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	activeSum, err := s.loanRepo.SumActiveInstallments(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum active installments: %w", err)
	}

	margin := emp.BaseSalary.Mul(cfg.LoanMarginPercent).Div(oneHundred)
	if activeSum.Add(req.InstallmentAmount).GreaterThan(margin) {
		s.logger.Warn("consignable margin exceeded",
			"employee_id", req.EmployeeID,
			"active_sum", activeSum.String(),
			"installment", req.InstallmentAmount.String(),
			"margin", margin.String(),
		)
		return nil, loan.ErrMarginExceeded
	}

	l := &loan.Loan{
		EmployeeID:        req.EmployeeID,
		Creditor:          req.Creditor,
		InstallmentAmount: req.InstallmentAmount,
		InstallmentsTotal: req.InstallmentsTotal,
		Active:            true,
	}
	if req.StartDate != "" {
		// Format already validated by req.Validate.
		startDate, _ := time.Parse("2006-01-02", req.StartDate)
		l.StartDate = startDate
	}

	if err := s.loanRepo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	return toLoanResponse(l), nil
}

func (s *LoanServiceImpl) ListEmployeeLoans(ctx context.Context, employeeID string, activeOnly bool) ([]loan.LoanResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Scope check: the employee must belong to the caller's tenant.
	if _, err := s.employeeRepo.GetByID(ctx, employeeID, tenantID); err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, employeeID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	responses := make([]loan.LoanResponse, 0, len(loans))
	for i := range loans {
		responses = append(responses, *toLoanResponse(&loans[i]))
	}
	return responses, nil
}

func (s *LoanServiceImpl) UpdateLoan(ctx context.Context, req *loan.UpdateLoanRequest) (*loan.LoanResponse, error) {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.loanRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, l.EmployeeID, tenantID); err != nil {
		return nil, err
	}

	if req.Creditor != nil {
		l.Creditor = *req.Creditor
	}
	if req.InstallmentAmount != nil {
		// Raising the installment re-triggers the margin guard against
		// the other active loans.
		if req.InstallmentAmount.GreaterThan(l.InstallmentAmount) && l.Active {
			emp, err := s.employeeRepo.GetByID(ctx, l.EmployeeID, tenantID)
			if err != nil {
				return nil, err
			}
			if emp.BaseSalary == nil {
				return nil, payroll.ErrNoSalaryLevel
			}
			cfg, err := s.getOrCreateConfig(ctx, tenantID)
			if err != nil {
				return nil, err
			}
			activeSum, err := s.loanRepo.SumActiveInstallments(ctx, l.EmployeeID)
			if err != nil {
				return nil, fmt.Errorf("failed to sum active installments: %w", err)
			}
			margin := emp.BaseSalary.Mul(cfg.LoanMarginPercent).Div(oneHundred)
			if activeSum.Sub(l.InstallmentAmount).Add(*req.InstallmentAmount).GreaterThan(margin) {
				return nil, loan.ErrMarginExceeded
			}
		}
		l.InstallmentAmount = *req.InstallmentAmount
	}

	if err := s.loanRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	return toLoanResponse(l), nil
}

func (s *LoanServiceImpl) DeactivateLoan(ctx context.Context, id string) error {
	tenantID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.employeeRepo.GetByID(ctx, l.EmployeeID, tenantID); err != nil {
		return err
	}

	if err := s.loanRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate loan: %w", err)
	}
	return nil
}

func toLoanResponse(l *loan.Loan) *loan.LoanResponse {
	return &loan.LoanResponse{
		ID:                l.ID,
		EmployeeID:        l.EmployeeID,
		Creditor:          l.Creditor,
		InstallmentAmount: l.InstallmentAmount,
		InstallmentsTotal: l.InstallmentsTotal,
		StartDate:         l.StartDate.Format("2006-01-02"),
		Active:            l.Active,
	}
}
