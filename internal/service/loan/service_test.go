package loan

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoanRepo struct {
	loans map[string]*loan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[string]*loan.Loan)}
}

func (r *fakeLoanRepo) Create(_ context.Context, l *loan.Loan) error {
	l.ID = uuid.NewString()
	stored := *l
	r.loans[l.ID] = &stored
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id string) (*loan.Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLoanRepo) ListByEmployee(_ context.Context, employeeID string, activeOnly bool) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range r.loans {
		if l.EmployeeID != employeeID {
			continue
		}
		if activeOnly && !l.Active {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeLoanRepo) SumActiveInstallments(_ context.Context, employeeID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range r.loans {
		if l.EmployeeID == employeeID && l.Active {
			sum = sum.Add(l.InstallmentAmount)
		}
	}
	return sum, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, l *loan.Loan) error {
	if _, ok := r.loans[l.ID]; !ok {
		return loan.ErrLoanNotFound
	}
	stored := *l
	r.loans[l.ID] = &stored
	return nil
}

func (r *fakeLoanRepo) Deactivate(_ context.Context, id string) error {
	l, ok := r.loans[id]
	if !ok {
		return loan.ErrLoanNotFound
	}
	l.Active = false
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetPayrollEmployees(_ context.Context, _ string, _ []string) ([]employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id, tenantID string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.TenantID != tenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeConfigRepo struct {
	payroll.Repository
	cfg *payroll.PayrollConfig // nil until seeded
}

func (r *fakeConfigRepo) GetConfig(_ context.Context, _ string) (payroll.PayrollConfig, error) {
	if r.cfg == nil {
		return payroll.PayrollConfig{}, payroll.ErrConfigNotFound
	}
	return *r.cfg, nil
}

func (r *fakeConfigRepo) UpsertConfig(_ context.Context, cfg payroll.PayrollConfig) (payroll.PayrollConfig, error) {
	stored := cfg
	r.cfg = &stored
	return cfg, nil
}

func tenantContext(t *testing.T, tenantID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"tenant_id": tenantID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestEmployeeRepo() *fakeEmployeeRepo {
	base := decimal.RequireFromString("4500.00")
	return &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"e1": {
			ID:         "e1",
			TenantID:   "tenant-1",
			FullName:   "João Lima",
			Regime:     employee.RegimeStatutory,
			Status:     employee.StatusActive,
			BaseSalary: &base,
		},
	}}
}

func newTestService(loanRepo *fakeLoanRepo) loan.Service {
	cfg := payroll.DefaultConfig("tenant-1") // 35% margin
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoanService(loanRepo, newTestEmployeeRepo(), &fakeConfigRepo{cfg: &cfg}, logger)
}

func createRequest(installment string) *loan.CreateLoanRequest {
	return &loan.CreateLoanRequest{
		EmployeeID:        "e1",
		Creditor:          "Banco Alfa",
		InstallmentAmount: decimal.RequireFromString(installment),
		InstallmentsTotal: 24,
		StartDate:         "2026-09-01",
	}
}

func TestCreateLoan_MarginGuard(t *testing.T) {
	// Margin: 4500 x 35% = 1575.00. Existing active installments: 1400.
	loanRepo := newFakeLoanRepo()
	svc := newTestService(loanRepo)
	ctx := tenantContext(t, "tenant-1")

	created, err := svc.CreateLoan(ctx, createRequest("1400.00"))
	require.NoError(t, err)
	assert.True(t, created.Active)

	// 1400 + 200 = 1600 > 1575: rejected.
	_, err = svc.CreateLoan(ctx, createRequest("200.00"))
	assert.ErrorIs(t, err, loan.ErrMarginExceeded)

	// 1400 + 175 = 1575: exactly at the margin, accepted.
	_, err = svc.CreateLoan(ctx, createRequest("175.00"))
	require.NoError(t, err)
}

func TestCreateLoan_SeedsDefaultConfigOnFirstAccess(t *testing.T) {
	// A tenant that never touched payroll settings gets country defaults
	// seeded when the margin guard first runs.
	configRepo := &fakeConfigRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewLoanService(newFakeLoanRepo(), newTestEmployeeRepo(), configRepo, logger)
	ctx := tenantContext(t, "tenant-1")

	created, err := svc.CreateLoan(ctx, createRequest("200.00"))
	require.NoError(t, err)
	assert.True(t, created.Active)

	require.NotNil(t, configRepo.cfg)
	assert.True(t, configRepo.cfg.LoanMarginPercent.Equal(decimal.NewFromInt(35)))
}

func TestCreateLoan_InactiveLoansDoNotCount(t *testing.T) {
	loanRepo := newFakeLoanRepo()
	svc := newTestService(loanRepo)
	ctx := tenantContext(t, "tenant-1")

	created, err := svc.CreateLoan(ctx, createRequest("1400.00"))
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateLoan(ctx, created.ID))

	// The margin is free again.
	_, err = svc.CreateLoan(ctx, createRequest("1500.00"))
	require.NoError(t, err)
}

func TestCreateLoan_Validation(t *testing.T) {
	svc := newTestService(newFakeLoanRepo())
	ctx := tenantContext(t, "tenant-1")

	req := createRequest("100.00")
	req.Creditor = " "
	_, err := svc.CreateLoan(ctx, req)
	assert.Error(t, err)

	req = createRequest("0.00")
	_, err = svc.CreateLoan(ctx, req)
	assert.Error(t, err)
}

func TestCreateLoan_UnknownEmployee(t *testing.T) {
	svc := newTestService(newFakeLoanRepo())
	req := createRequest("100.00")
	req.EmployeeID = "ghost"

	_, err := svc.CreateLoan(tenantContext(t, "tenant-1"), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateLoan_RaisingInstallmentRechecksMargin(t *testing.T) {
	loanRepo := newFakeLoanRepo()
	svc := newTestService(loanRepo)
	ctx := tenantContext(t, "tenant-1")

	created, err := svc.CreateLoan(ctx, createRequest("1500.00"))
	require.NoError(t, err)

	raised := decimal.RequireFromString("1600.00")
	_, err = svc.UpdateLoan(ctx, &loan.UpdateLoanRequest{ID: created.ID, InstallmentAmount: &raised})
	assert.ErrorIs(t, err, loan.ErrMarginExceeded)

	lowered := decimal.RequireFromString("1000.00")
	updated, err := svc.UpdateLoan(ctx, &loan.UpdateLoanRequest{ID: created.ID, InstallmentAmount: &lowered})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", updated.InstallmentAmount.StringFixed(2))
}

func TestListEmployeeLoans(t *testing.T) {
	loanRepo := newFakeLoanRepo()
	svc := newTestService(loanRepo)
	ctx := tenantContext(t, "tenant-1")

	created, err := svc.CreateLoan(ctx, createRequest("500.00"))
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateLoan(ctx, created.ID))
	_, err = svc.CreateLoan(ctx, createRequest("300.00"))
	require.NoError(t, err)

	active, err := svc.ListEmployeeLoans(ctx, "e1", true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListEmployeeLoans(ctx, "e1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
