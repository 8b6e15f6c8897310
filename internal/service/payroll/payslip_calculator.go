package payroll

import (
	"fmt"
	"log/slog"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// PayslipResult carries the computed items and totals for one employee,
// ready to be persisted as a payslip line.
type PayslipResult struct {
	Items              []payroll.PayslipItem
	GrossTotal         decimal.Decimal
	DeductionTotal     decimal.Decimal
	NetTotal           decimal.Decimal
	IncomeTaxBase      decimal.Decimal
	SocialSecurityBase decimal.Decimal
	FGTSBase           decimal.Decimal
}

// PayslipCalculator derives one employee's payslip from their registry
// snapshot and the tenant configuration. Pure computation, no I/O.
type PayslipCalculator struct {
	logger *slog.Logger
}

func NewPayslipCalculator(logger *slog.Logger) *PayslipCalculator {
	return &PayslipCalculator{logger: logger}
}

func (c *PayslipCalculator) Calculate(emp *employee.Employee, cfg *payroll.PayrollConfig, periodType payroll.PeriodType) (*PayslipResult, error) {
	if emp.BaseSalary == nil {
		return nil, payroll.ErrNoSalaryLevel
	}
	baseSalary := *emp.BaseSalary

	var items []payroll.PayslipItem
	gross := decimal.Zero
	deductions := decimal.Zero

	// Earnings
	items = append(items, payroll.PayslipItem{
		Kind:          payroll.ItemKindEarning,
		Amount:        baseSalary,
		ReferenceBase: &baseSalary,
		Description:   "Base Salary",
	})
	gross = gross.Add(baseSalary)

	switch periodType {
	case payroll.PeriodTypeThirteenthFirst:
		items = append(items, payroll.PayslipItem{
			Kind:          payroll.ItemKindEarning,
			Amount:        baseSalary,
			ReferenceBase: &baseSalary,
			Description:   "13th Salary - 1st Installment",
		})
		gross = gross.Add(baseSalary)
	case payroll.PeriodTypeThirteenthSecond:
		items = append(items, payroll.PayslipItem{
			Kind:          payroll.ItemKindEarning,
			Amount:        baseSalary,
			ReferenceBase: &baseSalary,
			Description:   "13th Salary - 2nd Installment",
		})
		gross = gross.Add(baseSalary)
	}

	// Social security, by regime
	socialSecurityBase := baseSalary
	socialSecurity := decimal.Zero

	switch emp.Regime.ContributionScheme() {
	case employee.SchemeFlat:
		contribution, err := FlatContribution(socialSecurityBase, cfg.RPPSPercent)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate pension contribution: %w", err)
		}
		socialSecurity = contribution
		items = append(items, payroll.PayslipItem{
			Kind:        payroll.ItemKindDeduction,
			Amount:      socialSecurity,
			Description: "RPPS",
		})
	case employee.SchemeProgressive:
		contribution, err := ProgressiveContribution(socialSecurityBase, cfg.SocialSecurityTable)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate social security contribution: %w", err)
		}
		socialSecurity = contribution
		items = append(items, payroll.PayslipItem{
			Kind:        payroll.ItemKindDeduction,
			Amount:      socialSecurity,
			Description: "INSS",
		})
	default:
		c.logger.Warn("regime has no social security scheme, skipping contribution",
			"employee_id", emp.ID,
			"regime", string(emp.Regime),
		)
	}
	deductions = deductions.Add(socialSecurity)

	// Income tax
	dependentDeduction := payroll.DependentDeduction.Mul(decimal.NewFromInt(int64(emp.DependentCount)))
	incomeTaxBase := decimal.Max(decimal.Zero, gross.Sub(socialSecurity).Sub(dependentDeduction))
	incomeTax, err := IncomeTax(incomeTaxBase, cfg.IncomeTaxTable)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate income tax: %w", err)
	}
	if incomeTax.IsPositive() {
		items = append(items, payroll.PayslipItem{
			Kind:          payroll.ItemKindDeduction,
			Amount:        incomeTax,
			ReferenceBase: &incomeTaxBase,
			Description:   fmt.Sprintf("IRRF (%d dep.)", emp.DependentCount),
		})
		deductions = deductions.Add(incomeTax)
	}

	// Consigned loans
	for _, l := range emp.Loans {
		items = append(items, payroll.PayslipItem{
			Kind:        payroll.ItemKindDeduction,
			Amount:      l.InstallmentAmount,
			Description: "Consigned Loan - " + l.Creditor,
		})
		deductions = deductions.Add(l.InstallmentAmount)
	}

	fgtsBase := decimal.Zero
	if emp.Regime.HasFGTS() {
		fgtsBase = baseSalary
	}

	return &PayslipResult{
		Items:              items,
		GrossTotal:         gross,
		DeductionTotal:     deductions,
		NetTotal:           gross.Sub(deductions),
		IncomeTaxBase:      incomeTaxBase,
		SocialSecurityBase: socialSecurityBase,
		FGTSBase:           fgtsBase,
	}, nil
}
