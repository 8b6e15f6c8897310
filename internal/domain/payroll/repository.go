package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines data access for payroll. All methods take the
// tenant scope explicitly to prevent cross-tenant access.
type Repository interface {
	// Config
	GetConfig(ctx context.Context, tenantID string) (PayrollConfig, error)
	UpsertConfig(ctx context.Context, cfg PayrollConfig) (PayrollConfig, error)

	// Components
	CreateComponent(ctx context.Context, component PayComponent) (PayComponent, error)
	ListComponents(ctx context.Context, tenantID string, activeOnly bool) ([]PayComponent, error)
	UpdateComponent(ctx context.Context, tenantID string, req UpdatePayComponentRequest) (PayComponent, error)

	// Periods
	GetPeriod(ctx context.Context, tenantID, competency string, periodType PeriodType) (PayPeriod, error)
	ListPeriods(ctx context.Context, tenantID string, filter PeriodFilter) ([]PayPeriod, int64, error)
	// UpsertPeriodForProcessing creates the period (or resets an existing
	// one) in IN_PROCESSING state with zeroed totals, locking the row for
	// the rest of the transaction. Returns ErrPeriodClosed when the period
	// exists and is CLOSED.
	UpsertPeriodForProcessing(ctx context.Context, tenantID, competency string, periodType PeriodType) (PayPeriod, error)
	// FinalizePeriod writes the aggregated totals, marks the period
	// PROCESSED and stamps the processing time.
	FinalizePeriod(ctx context.Context, periodID string, totals PeriodTotals) (PayPeriod, error)
	ClosePeriod(ctx context.Context, periodID string) (PayPeriod, error)
	ReopenPeriod(ctx context.Context, periodID string) (PayPeriod, error)

	// Payslip lines
	UpsertLine(ctx context.Context, line PayslipLine) (PayslipLine, error)
	// ReplaceLineItems deletes every item of the line and inserts the
	// given set, so no stale entries survive a reprocess.
	ReplaceLineItems(ctx context.Context, lineID string, items []PayslipItem) error
	ListLines(ctx context.Context, periodID string, page, limit int) ([]PayslipLine, int64, error)
	GetEmployeePayslip(ctx context.Context, tenantID, employeeID, competency string, periodType PeriodType) (PayslipLine, []PayslipItem, error)
}

// PeriodTotals is the immutable aggregate a batch run folds into.
type PeriodTotals struct {
	Gross         decimal.Decimal
	Deductions    decimal.Decimal
	Net           decimal.Decimal
	EmployeeCount int
}
