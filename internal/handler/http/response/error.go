package response

import (
	"errors"
	"net/http"

	"github.com/VANBAHIA/govrh/internal/domain/employee"
	"github.com/VANBAHIA/govrh/internal/domain/loan"
	"github.com/VANBAHIA/govrh/internal/domain/payroll"
	"github.com/VANBAHIA/govrh/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Pay period not found")
	case errors.Is(err, payroll.ErrPeriodClosed):
		Conflict(w, "Pay period is closed; reopen it before reprocessing")
	case errors.Is(err, payroll.ErrPeriodNotProcessed):
		Conflict(w, "Pay period must be processed before closing")
	case errors.Is(err, payroll.ErrPeriodNotClosed):
		Conflict(w, "Only closed pay periods can be reopened")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found for this competency")
	case errors.Is(err, payroll.ErrConfigNotFound):
		NotFound(w, "Payroll configuration not found")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Pay component not found")
	case errors.Is(err, payroll.ErrComponentCodeExists):
		Conflict(w, "Pay component code already exists")
	case errors.Is(err, payroll.ErrNegativeBase):
		UnprocessableEntity(w, "Calculation base must not be negative")
	case errors.Is(err, payroll.ErrEmptyBracketTable):
		UnprocessableEntity(w, "Bracket table is empty")
	case errors.Is(err, payroll.ErrNoSalaryLevel):
		UnprocessableEntity(w, "Employee has no salary level assignment")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrMarginExceeded):
		Conflict(w, "Consignable margin exceeded")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
