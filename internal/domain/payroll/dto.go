package payroll

import (
	"github.com/VANBAHIA/govrh/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CONFIG DTOs ==========

type PayrollConfigResponse struct {
	ID                  string                `json:"id"`
	TenantID            string                `json:"tenant_id"`
	RPPSPercent         decimal.Decimal       `json:"rpps_percent"`
	PatronalPercent     decimal.Decimal       `json:"patronal_percent"`
	FGTSPercent         decimal.Decimal       `json:"fgts_percent"`
	LoanMarginPercent   decimal.Decimal       `json:"loan_margin_percent"`
	AdvancePercent      decimal.Decimal       `json:"advance_percent"`
	IncomeTaxTable      []IncomeTaxBracket    `json:"income_tax_table"`
	SocialSecurityTable []ContributionBracket `json:"social_security_table"`
}

type UpdatePayrollConfigRequest struct {
	RPPSPercent         *decimal.Decimal      `json:"rpps_percent,omitempty"`
	PatronalPercent     *decimal.Decimal      `json:"patronal_percent,omitempty"`
	FGTSPercent         *decimal.Decimal      `json:"fgts_percent,omitempty"`
	LoanMarginPercent   *decimal.Decimal      `json:"loan_margin_percent,omitempty"`
	AdvancePercent      *decimal.Decimal      `json:"advance_percent,omitempty"`
	IncomeTaxTable      []IncomeTaxBracket    `json:"income_tax_table,omitempty"`
	SocialSecurityTable []ContributionBracket `json:"social_security_table,omitempty"`
}

func (r *UpdatePayrollConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	percents := map[string]*decimal.Decimal{
		"rpps_percent":        r.RPPSPercent,
		"patronal_percent":    r.PatronalPercent,
		"fgts_percent":        r.FGTSPercent,
		"loan_margin_percent": r.LoanMarginPercent,
		"advance_percent":     r.AdvancePercent,
	}
	for field, p := range percents {
		if p == nil {
			continue
		}
		if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be between 0 and 100"})
		}
	}

	if r.IncomeTaxTable != nil && len(r.IncomeTaxTable) == 0 {
		errs = append(errs, validator.ValidationError{Field: "income_tax_table", Message: "must not be empty"})
	}
	if r.SocialSecurityTable != nil && len(r.SocialSecurityTable) == 0 {
		errs = append(errs, validator.ValidationError{Field: "social_security_table", Message: "must not be empty"})
	}
	for i := range r.SocialSecurityTable {
		if r.SocialSecurityTable[i].Ceiling.IsNegative() || r.SocialSecurityTable[i].Rate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "social_security_table", Message: "ceilings and rates must be non-negative"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== COMPONENT DTOs ==========

type CreatePayComponentRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"` // "earning" or "deduction"
}

func (r *CreatePayComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	} else if !validator.IsValidComponentCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-20 uppercase alphanumeric characters or underscores"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Type != string(ComponentTypeEarning) && r.Type != string(ComponentTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'earning' or 'deduction'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayComponentRequest struct {
	ID     string
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type PayComponentResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// ========== PERIOD DTOs ==========

type ProcessPayrollRequest struct {
	Competency  string   `json:"competency,omitempty"` // defaults to current month
	Type        string   `json:"type,omitempty"`       // defaults to MONTHLY
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *ProcessPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Competency != "" {
		if _, ok := validator.IsValidCompetency(r.Competency); !ok {
			errs = append(errs, validator.ValidationError{Field: "competency", Message: "must be in YYYY-MM format"})
		}
	}
	if r.Type != "" && !PeriodType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "invalid period type"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPeriodResponse struct {
	ID              string          `json:"id"`
	Competency      string          `json:"competency"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	EmployeeCount   int             `json:"employee_count"`
	ProcessedAt     *string         `json:"processed_at,omitempty"`
	ClosedAt        *string         `json:"closed_at,omitempty"`
}

type ProcessPayrollResponse struct {
	Period          PayPeriodResponse `json:"period"`
	EmployeeCount   int               `json:"employee_count"`
	TotalGross      decimal.Decimal   `json:"total_gross"`
	TotalDeductions decimal.Decimal   `json:"total_deductions"`
	TotalNet        decimal.Decimal   `json:"total_net"`
}

type PeriodFilter struct {
	Competency *string
	Type       *string
	Status     *string
	Page       int
	Limit      int
}

type ListPayPeriodsResponse struct {
	Data       []PayPeriodResponse `json:"data"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// ========== PAYSLIP DTOs ==========

type PayslipLineResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	EmployeeName         string          `json:"employee_name,omitempty"`
	EmployeeRegistration string          `json:"employee_registration,omitempty"`
	GrossTotal           decimal.Decimal `json:"gross_total"`
	DeductionTotal       decimal.Decimal `json:"deduction_total"`
	NetTotal             decimal.Decimal `json:"net_total"`
	IncomeTaxBase        decimal.Decimal `json:"income_tax_base"`
	SocialSecurityBase   decimal.Decimal `json:"social_security_base"`
	FGTSBase             decimal.Decimal `json:"fgts_base"`
}

type ListPayslipLinesResponse struct {
	Data       []PayslipLineResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}

type PayslipItemResponse struct {
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	ReferenceBase *decimal.Decimal `json:"reference_base,omitempty"`
}

type PayslipEmployee struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Department   string `json:"department,omitempty"`
	Regime       string `json:"regime"`
}

type PayslipTotals struct {
	Gross              decimal.Decimal `json:"gross"`
	Deductions         decimal.Decimal `json:"deductions"`
	Net                decimal.Decimal `json:"net"`
	IncomeTaxBase      decimal.Decimal `json:"income_tax_base"`
	SocialSecurityBase decimal.Decimal `json:"social_security_base"`
}

type PayslipResponse struct {
	Employee   PayslipEmployee       `json:"employee"`
	Competency string                `json:"competency"`
	PeriodType string                `json:"period_type"`
	Earnings   []PayslipItemResponse `json:"earnings"`
	Deductions []PayslipItemResponse `json:"deductions"`
	Totals     PayslipTotals         `json:"totals"`
}
