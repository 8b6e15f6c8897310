package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/VANBAHIA/govrh/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	tx           database.Transactor
	payrollRepo  payroll.Repository
	employeeRepo employee.Repository
	calculator   *PayslipCalculator
	logger       *slog.Logger
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.Repository,
	employeeRepo employee.Repository,
	logger *slog.Logger,
) payroll.Service {
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		calculator:   NewPayslipCalculator(logger),
		logger:       logger,
	}
}

// Helper to get tenant_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (tenantID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", "", fmt.Errorf("tenant_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return tenantID, userID, nil
}

// ========== CONFIG ==========

func (s *PayrollServiceImpl) GetConfig(ctx context.Context) (payroll.PayrollConfigResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollConfigResponse{}, err
	}

	cfg, err := s.getOrCreateConfig(ctx, tenantID)
	if err != nil {
		return payroll.PayrollConfigResponse{}, err
	}

	return toConfigResponse(cfg), nil
}

func (s *PayrollServiceImpl) UpdateConfig(ctx context.Context, req payroll.UpdatePayrollConfigRequest) (payroll.PayrollConfigResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollConfigResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return payroll.PayrollConfigResponse{}, err
	}

	cfg, err := s.getOrCreateConfig(ctx, tenantID)
	if err != nil {
		return payroll.PayrollConfigResponse{}, err
	}

	if req.RPPSPercent != nil {
		cfg.RPPSPercent = *req.RPPSPercent
	}
	if req.PatronalPercent != nil {
		cfg.PatronalPercent = *req.PatronalPercent
	}
	if req.FGTSPercent != nil {
		cfg.FGTSPercent = *req.FGTSPercent
	}
	if req.LoanMarginPercent != nil {
		cfg.LoanMarginPercent = *req.LoanMarginPercent
	}
	if req.AdvancePercent != nil {
		cfg.AdvancePercent = *req.AdvancePercent
	}
	if req.IncomeTaxTable != nil {
		cfg.IncomeTaxTable = req.IncomeTaxTable
	}
	if req.SocialSecurityTable != nil {
		cfg.SocialSecurityTable = req.SocialSecurityTable
	}

	updated, err := s.payrollRepo.UpsertConfig(ctx, cfg)
	if err != nil {
		return payroll.PayrollConfigResponse{}, fmt.Errorf("failed to update payroll config: %w", err)
	}

	return toConfigResponse(updated), nil
}

// getOrCreateConfig loads the tenant config, seeding country defaults
// on first access.
func (s *PayrollServiceImpl) getOrCreateConfig(ctx context.Context, tenantID string) (payroll.PayrollConfig, error) {
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

// ========== COMPONENTS ==========

func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreatePayComponentRequest) (payroll.PayComponentResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayComponentResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return payroll.PayComponentResponse{}, err
	}

	component, err := s.payrollRepo.CreateComponent(ctx, payroll.PayComponent{
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
		Type:     payroll.ComponentType(req.Type),
		Active:   true,
	})
	if err != nil {
		return payroll.PayComponentResponse{}, err
	}

	return toComponentResponse(component), nil
}

func (s *PayrollServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.PayComponentResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	components, err := s.payrollRepo.ListComponents(ctx, tenantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay components: %w", err)
	}

	responses := make([]payroll.PayComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, toComponentResponse(c))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdatePayComponentRequest) (payroll.PayComponentResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayComponentResponse{}, err
	}

	component, err := s.payrollRepo.UpdateComponent(ctx, tenantID, req)
	if err != nil {
		return payroll.PayComponentResponse{}, err
	}

	return toComponentResponse(component), nil
}

// ========== BATCH PROCESSING ==========

func (s *PayrollServiceImpl) ProcessPayroll(ctx context.Context, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	competency := req.Competency
	if competency == "" {
		competency = time.Now().Format("2006-01")
	}
	periodType := payroll.PeriodType(req.Type)
	if req.Type == "" {
		periodType = payroll.PeriodTypeMonthly
	}

	var resp payroll.ProcessPayrollResponse

	// The whole batch runs in one transaction: a failure on any employee
	// rolls back every upsert of this run. The period row lock taken by
	// UpsertPeriodForProcessing serializes concurrent runs per period.
	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		period, err := s.payrollRepo.UpsertPeriodForProcessing(txCtx, tenantID, competency, periodType)
		if err != nil {
			return err
		}

		cfg, err := s.getOrCreateConfig(txCtx, tenantID)
		if err != nil {
			return err
		}

		employees, err := s.employeeRepo.GetPayrollEmployees(txCtx, tenantID, req.EmployeeIDs)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}

		totals := payroll.PeriodTotals{
			Gross:      decimal.Zero,
			Deductions: decimal.Zero,
			Net:        decimal.Zero,
		}

		for i := range employees {
			emp := &employees[i]

			result, err := s.calculator.Calculate(emp, &cfg, periodType)
			if err != nil {
				return fmt.Errorf("failed to calculate payslip for employee %s: %w", emp.ID, err)
			}

			line, err := s.payrollRepo.UpsertLine(txCtx, payroll.PayslipLine{
				PayPeriodID:        period.ID,
				EmployeeID:         emp.ID,
				GrossTotal:         result.GrossTotal,
				DeductionTotal:     result.DeductionTotal,
				NetTotal:           result.NetTotal,
				IncomeTaxBase:      result.IncomeTaxBase,
				SocialSecurityBase: result.SocialSecurityBase,
				FGTSBase:           result.FGTSBase,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert payslip line for employee %s: %w", emp.ID, err)
			}

			if err := s.payrollRepo.ReplaceLineItems(txCtx, line.ID, result.Items); err != nil {
				return fmt.Errorf("failed to replace payslip items for employee %s: %w", emp.ID, err)
			}

			totals = payroll.PeriodTotals{
				Gross:         totals.Gross.Add(result.GrossTotal),
				Deductions:    totals.Deductions.Add(result.DeductionTotal),
				Net:           totals.Net.Add(result.NetTotal),
				EmployeeCount: totals.EmployeeCount + 1,
			}
		}

		finalized, err := s.payrollRepo.FinalizePeriod(txCtx, period.ID, totals)
		if err != nil {
			return fmt.Errorf("failed to finalize pay period: %w", err)
		}

		resp = payroll.ProcessPayrollResponse{
			Period:          toPeriodResponse(finalized),
			EmployeeCount:   totals.EmployeeCount,
			TotalGross:      totals.Gross,
			TotalDeductions: totals.Deductions,
			TotalNet:        totals.Net,
		}
		return nil
	})
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	s.logger.Info("payroll processed",
		"tenant_id", tenantID,
		"competency", competency,
		"type", string(periodType),
		"employee_count", resp.EmployeeCount,
	)

	return resp, nil
}

// ========== PERIOD LIFECYCLE ==========

func (s *PayrollServiceImpl) ClosePeriod(ctx context.Context, competency string, periodType payroll.PeriodType) (payroll.PayPeriodResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, tenantID, competency, periodType)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}
	if period.Status != payroll.PeriodStatusProcessed {
		return payroll.PayPeriodResponse{}, payroll.ErrPeriodNotProcessed
	}

	closed, err := s.payrollRepo.ClosePeriod(ctx, period.ID)
	if err != nil {
		return payroll.PayPeriodResponse{}, fmt.Errorf("failed to close pay period: %w", err)
	}
	return toPeriodResponse(closed), nil
}

func (s *PayrollServiceImpl) ReopenPeriod(ctx context.Context, competency string, periodType payroll.PeriodType) (payroll.PayPeriodResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, tenantID, competency, periodType)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}
	if period.Status != payroll.PeriodStatusClosed {
		return payroll.PayPeriodResponse{}, payroll.ErrPeriodNotClosed
	}

	reopened, err := s.payrollRepo.ReopenPeriod(ctx, period.ID)
	if err != nil {
		return payroll.PayPeriodResponse{}, fmt.Errorf("failed to reopen pay period: %w", err)
	}
	return toPeriodResponse(reopened), nil
}

func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, competency string, periodType payroll.PeriodType) (payroll.PayPeriodResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriod(ctx, tenantID, competency, periodType)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}
	return toPeriodResponse(period), nil
}

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPayPeriodsResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayPeriodsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	periods, total, err := s.payrollRepo.ListPeriods(ctx, tenantID, filter)
	if err != nil {
		return payroll.ListPayPeriodsResponse{}, fmt.Errorf("failed to list pay periods: %w", err)
	}

	responses := make([]payroll.PayPeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, toPeriodResponse(p))
	}

	return payroll.ListPayPeriodsResponse{
		Data:       responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) ListPeriodLines(ctx context.Context, competency string, periodType payroll.PeriodType, page, limit int) (payroll.ListPayslipLinesResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayslipLinesResponse{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	period, err := s.payrollRepo.GetPeriod(ctx, tenantID, competency, periodType)
	if err != nil {
		return payroll.ListPayslipLinesResponse{}, err
	}

	lines, total, err := s.payrollRepo.ListLines(ctx, period.ID, page, limit)
	if err != nil {
		return payroll.ListPayslipLinesResponse{}, fmt.Errorf("failed to list payslip lines: %w", err)
	}

	responses := make([]payroll.PayslipLineResponse, 0, len(lines))
	for _, l := range lines {
		responses = append(responses, toLineResponse(l))
	}

	return payroll.ListPayslipLinesResponse{
		Data:       responses,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, employeeID, competency string) (payroll.PayslipResponse, error) {
	tenantID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	if competency == "" {
		competency = time.Now().Format("2006-01")
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, tenantID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	line, items, err := s.payrollRepo.GetEmployeePayslip(ctx, tenantID, employeeID, competency, payroll.PeriodTypeMonthly)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	var earnings, deductions []payroll.PayslipItemResponse
	for _, item := range items {
		entry := payroll.PayslipItemResponse{
			Description:   item.Description,
			Amount:        item.Amount,
			ReferenceBase: item.ReferenceBase,
		}
		if item.Kind == payroll.ItemKindEarning {
			earnings = append(earnings, entry)
		} else {
			deductions = append(deductions, entry)
		}
	}

	return payroll.PayslipResponse{
		Employee: payroll.PayslipEmployee{
			ID:           emp.ID,
			Registration: emp.Registration,
			Name:         emp.FullName,
			Position:     emp.Position,
			Department:   emp.Department,
			Regime:       string(emp.Regime),
		},
		Competency: competency,
		PeriodType: string(payroll.PeriodTypeMonthly),
		Earnings:   earnings,
		Deductions: deductions,
		Totals: payroll.PayslipTotals{
			Gross:              line.GrossTotal,
			Deductions:         line.DeductionTotal,
			Net:                line.NetTotal,
			IncomeTaxBase:      line.IncomeTaxBase,
			SocialSecurityBase: line.SocialSecurityBase,
		},
	}, nil
}

func (s *PayrollServiceImpl) GetPayslipPDF(ctx context.Context, employeeID, competency string) ([]byte, error) {
	payslip, err := s.GetPayslip(ctx, employeeID, competency)
	if err != nil {
		return nil, err
	}
	return renderPayslipPDF(payslip)
}

// ========== MAPPERS ==========

func toConfigResponse(cfg payroll.PayrollConfig) payroll.PayrollConfigResponse {
	return payroll.PayrollConfigResponse{
		ID:                  cfg.ID,
		TenantID:            cfg.TenantID,
		RPPSPercent:         cfg.RPPSPercent,
		PatronalPercent:     cfg.PatronalPercent,
		FGTSPercent:         cfg.FGTSPercent,
		LoanMarginPercent:   cfg.LoanMarginPercent,
		AdvancePercent:      cfg.AdvancePercent,
		IncomeTaxTable:      cfg.IncomeTaxTable,
		SocialSecurityTable: cfg.SocialSecurityTable,
	}
}

func toComponentResponse(c payroll.PayComponent) payroll.PayComponentResponse {
	return payroll.PayComponentResponse{
		ID:     c.ID,
		Code:   c.Code,
		Name:   c.Name,
		Type:   string(c.Type),
		Active: c.Active,
	}
}

func toPeriodResponse(p payroll.PayPeriod) payroll.PayPeriodResponse {
	resp := payroll.PayPeriodResponse{
		ID:              p.ID,
		Competency:      p.Competency,
		Type:            string(p.Type),
		Status:          string(p.Status),
		TotalGross:      p.TotalGross,
		TotalDeductions: p.TotalDeductions,
		TotalNet:        p.TotalNet,
		EmployeeCount:   p.EmployeeCount,
	}
	if p.ProcessedAt != nil {
		processedAt := p.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processedAt
	}
	if p.ClosedAt != nil {
		closedAt := p.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	return resp
}

func toLineResponse(l payroll.PayslipLine) payroll.PayslipLineResponse {
	resp := payroll.PayslipLineResponse{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		GrossTotal:         l.GrossTotal,
		DeductionTotal:     l.DeductionTotal,
		NetTotal:           l.NetTotal,
		IncomeTaxBase:      l.IncomeTaxBase,
		SocialSecurityBase: l.SocialSecurityBase,
		FGTSBase:           l.FGTSBase,
	}
	if l.EmployeeName != nil {
		resp.EmployeeName = *l.EmployeeName
	}
	if l.EmployeeRegistration != nil {
		resp.EmployeeRegistration = *l.EmployeeRegistration
	}
	return resp
}
