package payroll

import "errors"

var (
	ErrCycleNotFound = errors.New("payroll cycle not found")
	ErrInvalidPeriod = errors.New("payroll period bounds are invalid")
)
