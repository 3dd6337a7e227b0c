package contract

import "errors"

var (
	ErrCredentialMissing = errors.New("credential is missing")
	ErrAuthentication    = errors.New("authentication rejected")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrValidation        = errors.New("validation failed")
	ErrModelInvoke       = errors.New("model invoke failed")
	ErrSchemaViolation   = errors.New("model response violates schema")
)
