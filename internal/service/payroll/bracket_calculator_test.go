package payroll

import (
	"testing"

	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressiveContribution(t *testing.T) {
	table := payroll.DefaultSocialSecurityTable()

	cases := []struct {
		name string
		base string
		want string
	}{
		{"zero base", "0", "0.00"},
		{"inside first bracket", "1000.00", "75.00"},
		{"exactly first ceiling", "1412.00", "105.90"},
		{"crosses three brackets", "3000.00", "258.82"},
		{"exactly last ceiling", "7786.02", "908.86"},
		{"above last ceiling is capped", "10000.00", "908.86"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ProgressiveContribution(decimal.RequireFromString(c.base), table)
			require.NoError(t, err)
			assert.Equal(t, c.want, got.StringFixed(2))
		})
	}
}

func TestProgressiveContribution_MarginalNotFlat(t *testing.T) {
	// A base just above a ceiling must not re-tax the whole base at the
	// higher rate.
	table := payroll.DefaultSocialSecurityTable()

	below, err := ProgressiveContribution(decimal.RequireFromString("1412.00"), table)
	require.NoError(t, err)
	above, err := ProgressiveContribution(decimal.RequireFromString("1412.01"), table)
	require.NoError(t, err)

	assert.True(t, above.Sub(below).LessThanOrEqual(decimal.RequireFromString("0.01")),
		"contribution jumped at bracket boundary: %s -> %s", below, above)
}

func TestProgressiveContribution_Monotonic(t *testing.T) {
	table := payroll.DefaultSocialSecurityTable()

	prev := decimal.Zero
	for _, base := range []string{"500", "1412", "2000", "2666.68", "3500", "4000.03", "6000", "7786.02", "9000"} {
		got, err := ProgressiveContribution(decimal.RequireFromString(base), table)
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "contribution decreased at base %s", base)
		prev = got
	}
}

func TestProgressiveContribution_Errors(t *testing.T) {
	table := payroll.DefaultSocialSecurityTable()

	_, err := ProgressiveContribution(decimal.RequireFromString("-1"), table)
	assert.ErrorIs(t, err, payroll.ErrNegativeBase)

	_, err = ProgressiveContribution(decimal.RequireFromString("1000"), nil)
	assert.ErrorIs(t, err, payroll.ErrEmptyBracketTable)
}

func TestIncomeTax(t *testing.T) {
	table := payroll.DefaultIncomeTaxTable()

	cases := []struct {
		name string
		base string
		want string
	}{
		{"exempt below first ceiling", "2000.00", "0.00"},
		{"exempt at first ceiling", "2259.20", "0.00"},
		{"second bracket", "2500.00", "18.06"},
		{"third bracket", "3000.00", "68.56"},
		{"fourth bracket boundary", "4664.68", "386.78"},
		{"open-ended top bracket", "5000.00", "479.00"},
		{"deep into top bracket", "20000.00", "4604.00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := IncomeTax(decimal.RequireFromString(c.base), table)
			require.NoError(t, err)
			assert.Equal(t, c.want, got.StringFixed(2))
		})
	}
}

func TestIncomeTax_ClampsNegativeResult(t *testing.T) {
	ceiling := decimal.RequireFromString("1000.00")
	table := []payroll.IncomeTaxBracket{
		{Ceiling: &ceiling, Rate: decimal.Zero, FixedDeduction: decimal.Zero},
		{Ceiling: nil, Rate: decimal.RequireFromString("0.10"), FixedDeduction: decimal.RequireFromString("500.00")},
	}

	got, err := IncomeTax(decimal.RequireFromString("1001.00"), table)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.StringFixed(2))
}

func TestIncomeTax_Errors(t *testing.T) {
	table := payroll.DefaultIncomeTaxTable()

	_, err := IncomeTax(decimal.RequireFromString("-0.01"), table)
	assert.ErrorIs(t, err, payroll.ErrNegativeBase)

	_, err = IncomeTax(decimal.RequireFromString("3000"), []payroll.IncomeTaxBracket{})
	assert.ErrorIs(t, err, payroll.ErrEmptyBracketTable)
}

func TestFlatContribution(t *testing.T) {
	got, err := FlatContribution(decimal.RequireFromString("4500.00"), decimal.RequireFromString("14.00"))
	require.NoError(t, err)
	assert.Equal(t, "630.00", got.StringFixed(2))

	got, err = FlatContribution(decimal.RequireFromString("3333.33"), decimal.RequireFromString("14.00"))
	require.NoError(t, err)
	assert.Equal(t, "466.67", got.StringFixed(2))

	_, err = FlatContribution(decimal.RequireFromString("-1"), decimal.RequireFromString("14.00"))
	assert.ErrorIs(t, err, payroll.ErrNegativeBase)
}
