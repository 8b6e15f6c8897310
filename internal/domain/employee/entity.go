package employee

import (
	"time"

	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// Regime enum - employment regime of a public-sector employee.
type Regime string

const (
	RegimeStatutory          Regime = "STATUTORY"
	RegimeCommissioned       Regime = "COMMISSIONED"
	RegimeCLT                Regime = "CLT"
	RegimeIntern             Regime = "INTERN"
	RegimeTemporary          Regime = "TEMPORARY"
	RegimePoliticalAppointee Regime = "POLITICAL_APPOINTEE"
)

// ContributionScheme tells the payslip calculator which social-security
// rule a regime falls under.
type ContributionScheme int

const (
	// SchemeFlat - statutory pension (RPPS), flat tenant percentage.
	SchemeFlat ContributionScheme = iota
	// SchemeProgressive - private-sector style (INSS) bracket table.
	SchemeProgressive
	// SchemeNone - regimes with no withholding here (political
	// appointees contribute through a separate channel).
	SchemeNone
)

func (r Regime) ContributionScheme() ContributionScheme {
	switch r {
	case RegimeStatutory, RegimeCommissioned:
		return SchemeFlat
	case RegimeCLT, RegimeIntern, RegimeTemporary:
		return SchemeProgressive
	default:
		return SchemeNone
	}
}

// HasFGTS reports whether the regime accrues an FGTS deposit base.
func (r Regime) HasFGTS() bool {
	return r == RegimeCLT
}

// Status enum
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusTerminated Status = "TERMINATED"
	StatusRetired    Status = "RETIRED"
)

// Employee is the read-side snapshot the payroll engine consumes from
// the registry: salary level, regime, tax-eligible dependents and the
// already-approved active loans, loaded eagerly for a batch run.
type Employee struct {
	ID           string
	TenantID     string
	Registration string
	FullName     string
	Regime       Regime
	Status       Status
	Position     string
	Department   string
	// BaseSalary comes from the current salary-level assignment; nil
	// means the employee is not fully onboarded yet.
	BaseSalary     *decimal.Decimal
	DependentCount int
	Loans          []loan.Loan
	HireDate       time.Time
}
