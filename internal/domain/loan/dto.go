package loan

import (
	"github.com/VANBAHIA/govrh/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	EmployeeID        string          `json:"employee_id"`
	Creditor          string          `json:"creditor"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentsTotal int             `json:"installments_total"`
	StartDate         string          `json:"start_date"` // "2006-01-02"
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Creditor) {
		errs = append(errs, validator.ValidationError{Field: "creditor", Message: "is required"})
	}
	if !r.InstallmentAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "installment_amount", Message: "must be positive"})
	}
	if r.InstallmentsTotal <= 0 {
		errs = append(errs, validator.ValidationError{Field: "installments_total", Message: "must be positive"})
	}
	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLoanRequest struct {
	ID                string
	Creditor          *string          `json:"creditor,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
}

type LoanResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Creditor          string          `json:"creditor"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentsTotal int             `json:"installments_total"`
	StartDate         string          `json:"start_date"`
	Active            bool            `json:"active"`
}
