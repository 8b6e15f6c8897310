package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType enum - which payroll run a period represents
type PeriodType string

const (
	PeriodTypeMonthly          PeriodType = "MONTHLY"
	PeriodTypeThirteenthFirst  PeriodType = "THIRTEENTH_FIRST"
	PeriodTypeThirteenthSecond PeriodType = "THIRTEENTH_SECOND"
	PeriodTypeSeverance        PeriodType = "SEVERANCE"
)

func (t PeriodType) Valid() bool {
	switch t {
	case PeriodTypeMonthly, PeriodTypeThirteenthFirst, PeriodTypeThirteenthSecond, PeriodTypeSeverance:
		return true
	}
	return false
}

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen         PeriodStatus = "OPEN"
	PeriodStatusInProcessing PeriodStatus = "IN_PROCESSING"
	PeriodStatusProcessed    PeriodStatus = "PROCESSED"
	PeriodStatusClosed       PeriodStatus = "CLOSED"
)

// PayPeriod - one payroll run per tenant x competency x type.
// Totals are always the sum of its payslip lines; a reprocess zeroes
// and rebuilds them, never accumulates.
type PayPeriod struct {
	ID              string
	TenantID        string
	Competency      string // "2006-01"
	Type            PeriodType
	Status          PeriodStatus
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	EmployeeCount   int
	ProcessedAt     *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PayslipLine - the computed result for one employee in one period.
// Owned by its period; replaced wholesale on reprocessing.
type PayslipLine struct {
	ID                 string
	PayPeriodID        string
	EmployeeID         string
	GrossTotal         decimal.Decimal
	DeductionTotal     decimal.Decimal
	NetTotal           decimal.Decimal
	IncomeTaxBase      decimal.Decimal
	SocialSecurityBase decimal.Decimal
	FGTSBase           decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName         *string
	EmployeeRegistration *string
}

// ItemKind enum
type ItemKind string

const (
	ItemKindEarning   ItemKind = "earning"
	ItemKindDeduction ItemKind = "deduction"
)

// PayslipItem - a single earning or deduction entry on a payslip line.
type PayslipItem struct {
	ID            string
	PayslipLineID string
	Kind          ItemKind
	Amount        decimal.Decimal
	ReferenceBase *decimal.Decimal
	Description   string
}

// IncomeTaxBracket - one row of the withholding-tax table. A nil
// Ceiling marks the open-ended top bracket.
type IncomeTaxBracket struct {
	Ceiling        *decimal.Decimal `json:"ceiling"`
	Rate           decimal.Decimal  `json:"rate"`
	FixedDeduction decimal.Decimal  `json:"fixed_deduction"`
}

// ContributionBracket - one row of the progressive social-security table.
type ContributionBracket struct {
	Ceiling decimal.Decimal `json:"ceiling"`
	Rate    decimal.Decimal `json:"rate"`
}

// PayrollConfig - per-tenant payroll parameters. Created lazily with
// country defaults on first access.
type PayrollConfig struct {
	ID                  string
	TenantID            string
	RPPSPercent         decimal.Decimal
	PatronalPercent     decimal.Decimal
	FGTSPercent         decimal.Decimal
	LoanMarginPercent   decimal.Decimal
	AdvancePercent      decimal.Decimal
	IncomeTaxTable      []IncomeTaxBracket
	SocialSecurityTable []ContributionBracket
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
)

// PayComponent - tenant catalog entry for an earning/deduction code
// (rubrica).
type PayComponent struct {
	ID        string
	TenantID  string
	Code      string
	Name      string
	Type      ComponentType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
