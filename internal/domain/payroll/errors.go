package payroll

import "errors"

var (
	ErrPeriodNotFound      = errors.New("pay period not found")
	ErrPeriodClosed        = errors.New("pay period is closed")
	ErrPeriodNotProcessed  = errors.New("pay period must be processed before closing")
	ErrPeriodNotClosed     = errors.New("only closed pay periods can be reopened")
	ErrPayslipNotFound     = errors.New("payslip not found for this competency")
	ErrConfigNotFound      = errors.New("payroll config not found")
	ErrComponentNotFound   = errors.New("pay component not found")
	ErrComponentCodeExists = errors.New("pay component code already exists")
	ErrNegativeBase        = errors.New("calculation base must not be negative")
	ErrEmptyBracketTable   = errors.New("bracket table is empty")
	ErrNoSalaryLevel       = errors.New("employee has no salary level assignment")
)
