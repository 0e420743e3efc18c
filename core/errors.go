package core

import "errors"

// Sentinel errors for the workflow engine. Controllers map these to
// HTTP statuses; core functions wrap them with context via fmt.Errorf
// and %w so errors.Is still matches.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentRequired   = errors.New("payment required")
	ErrQuotaExceeded     = errors.New("report limit reached")
	ErrUnavailable       = errors.New("service unavailable")
)
