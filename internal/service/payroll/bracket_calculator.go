package payroll

import (
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ProgressiveContribution computes a marginal-rate contribution over an
// ascending bracket table: each slice of the base between the previous
// ceiling and min(base, ceiling) is taxed at that bracket's rate. Income
// above the last ceiling contributes nothing.
func ProgressiveContribution(base decimal.Decimal, table []payroll.ContributionBracket) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, payroll.ErrNegativeBase
	}
	if len(table) == 0 {
		return decimal.Zero, payroll.ErrEmptyBracketTable
	}

	total := decimal.Zero
	floor := decimal.Zero
	for _, bracket := range table {
		top := decimal.Min(base, bracket.Ceiling)
		slice := top.Sub(floor)
		if slice.IsNegative() {
			break
		}
		total = total.Add(slice.Mul(bracket.Rate))
		floor = bracket.Ceiling
		if base.LessThanOrEqual(bracket.Ceiling) {
			break
		}
	}
	return total.Round(2), nil
}

// IncomeTax computes withholding tax as base*rate - fixed deduction for
// the first bracket whose ceiling covers the base. A base at or below
// the first ceiling is exempt. A nil ceiling marks the open-ended top
// bracket; when no ceiling covers the base the last bracket applies.
// Negative results are clamped to zero.
func IncomeTax(base decimal.Decimal, table []payroll.IncomeTaxBracket) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, payroll.ErrNegativeBase
	}
	if len(table) == 0 {
		return decimal.Zero, payroll.ErrEmptyBracketTable
	}

	first := table[0]
	if first.Ceiling != nil && base.LessThanOrEqual(*first.Ceiling) {
		return decimal.Zero, nil
	}

	applied := table[len(table)-1]
	for _, bracket := range table {
		if bracket.Ceiling == nil || base.LessThanOrEqual(*bracket.Ceiling) {
			applied = bracket
			break
		}
	}

	tax := base.Mul(applied.Rate).Sub(applied.FixedDeduction).Round(2)
	if tax.IsNegative() {
		return decimal.Zero, nil
	}
	return tax, nil
}

// FlatContribution applies a flat percentage to the base.
func FlatContribution(base decimal.Decimal, percent decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, payroll.ErrNegativeBase
	}
	return base.Mul(percent).Div(oneHundred).Round(2), nil
}
