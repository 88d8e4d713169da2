package verification

import "errors"

var (
	ErrRequestNotFound = errors.New("change request not found")
	ErrStateConflict   = errors.New("change request is not in the required state")
	ErrCodeExpired     = errors.New("one-time code has expired")
	ErrEmployeeFrozen  = errors.New("employee account is frozen")
)
