package payroll

import "github.com/shopspring/decimal"

// DependentDeduction is the flat per-dependent income-tax deduction
// (monthly, 2024 table).
var DependentDeduction = decimal.NewFromFloat(189.59)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// DefaultIncomeTaxTable returns the 2024/2025 monthly withholding-tax
// brackets. The last bracket has no ceiling.
func DefaultIncomeTaxTable() []IncomeTaxBracket {
	return []IncomeTaxBracket{
		{Ceiling: decPtr(2259.20), Rate: dec(0), FixedDeduction: dec(0)},
		{Ceiling: decPtr(2826.65), Rate: dec(0.075), FixedDeduction: dec(169.44)},
		{Ceiling: decPtr(3751.05), Rate: dec(0.15), FixedDeduction: dec(381.44)},
		{Ceiling: decPtr(4664.68), Rate: dec(0.225), FixedDeduction: dec(662.77)},
		{Ceiling: nil, Rate: dec(0.275), FixedDeduction: dec(896.00)},
	}
}

// DefaultSocialSecurityTable returns the 2024 progressive contribution
// brackets. Earnings above the top ceiling contribute nothing further.
func DefaultSocialSecurityTable() []ContributionBracket {
	return []ContributionBracket{
		{Ceiling: dec(1412.00), Rate: dec(0.075)},
		{Ceiling: dec(2666.68), Rate: dec(0.09)},
		{Ceiling: dec(4000.03), Rate: dec(0.12)},
		{Ceiling: dec(7786.02), Rate: dec(0.14)},
	}
}

// DefaultConfig returns the configuration seeded for a tenant on first
// access.
func DefaultConfig(tenantID string) PayrollConfig {
	return PayrollConfig{
		TenantID:            tenantID,
		RPPSPercent:         dec(14.00),
		PatronalPercent:     dec(22.00),
		FGTSPercent:         dec(8.00),
		LoanMarginPercent:   dec(35.00),
		AdvancePercent:      dec(40.00),
		IncomeTaxTable:      DefaultIncomeTaxTable(),
		SocialSecurityTable: DefaultSocialSecurityTable(),
	}
}
