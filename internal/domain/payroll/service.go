package payroll

import "context"

// Service is the payroll engine surface consumed by the HTTP layer.
type Service interface {
	// Config
	GetConfig(ctx context.Context) (PayrollConfigResponse, error)
	UpdateConfig(ctx context.Context, req UpdatePayrollConfigRequest) (PayrollConfigResponse, error)

	// Components
	CreateComponent(ctx context.Context, req CreatePayComponentRequest) (PayComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]PayComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdatePayComponentRequest) (PayComponentResponse, error)

	// Batch processing and period lifecycle
	ProcessPayroll(ctx context.Context, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	ClosePeriod(ctx context.Context, competency string, periodType PeriodType) (PayPeriodResponse, error)
	ReopenPeriod(ctx context.Context, competency string, periodType PeriodType) (PayPeriodResponse, error)
	GetPeriod(ctx context.Context, competency string, periodType PeriodType) (PayPeriodResponse, error)
	ListPeriods(ctx context.Context, filter PeriodFilter) (ListPayPeriodsResponse, error)
	ListPeriodLines(ctx context.Context, competency string, periodType PeriodType, page, limit int) (ListPayslipLinesResponse, error)

	// Payslips
	GetPayslip(ctx context.Context, employeeID, competency string) (PayslipResponse, error)
	GetPayslipPDF(ctx context.Context, employeeID, competency string) ([]byte, error)
}
