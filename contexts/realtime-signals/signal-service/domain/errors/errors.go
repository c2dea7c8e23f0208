package errors

import "errors"

var (
	ErrInvalidTenantID = errors.New("invalid tenant id")
	ErrInvalidKind     = errors.New("invalid signal kind")
	ErrInvalidSince    = errors.New("invalid since timestamp")
)
