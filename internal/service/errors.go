package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses; the underlying storage cause is logged, never surfaced verbatim.
var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrTokenExpired       = errors.New("token is expired or invalid")
	ErrDuplicate          = errors.New("record already exists")
)
