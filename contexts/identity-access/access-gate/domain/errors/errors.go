package errors

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidTenantID   = errors.New("invalid tenant id")
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrInvalidRateKey    = errors.New("invalid rate limit key")
)

// AuthError means no valid session or tenant context exists. Maps to HTTP 401.
type AuthError struct {
	Message string
}

func NewAuthError() *AuthError {
	return &AuthError{Message: "not logged in"}
}

func (e *AuthError) Error() string { return e.Message }

// PermissionError means the context is valid but the capability is denied.
// Maps to HTTP 403. PublicMessage is the user-safe rendering assigned at
// construction; Message may reference internal permission keys and must never
// reach end users unmasked.
type PermissionError struct {
	Message       string
	PublicMessage string
}

func NewPermissionError(message, publicMessage string) *PermissionError {
	return &PermissionError{Message: message, PublicMessage: publicMessage}
}

func (e *PermissionError) Error() string { return e.Message }

// permissionKeyPattern matches domain:action shaped tokens. Best-effort: it
// can over-match legitimate text containing a colon, which is why errors
// constructed in this package always carry an explicit PublicMessage instead.
var permissionKeyPattern = regexp.MustCompile(`\b\w+:\w+\b`)

// PublicErrorMessage returns a string safe to show end users for a permission
// denial. An explicit PublicMessage wins; otherwise the raw message is masked
// with fallback whenever it is empty or looks like it embeds a permission key.
func PublicErrorMessage(err error, fallback string) string {
	var pe *PermissionError
	if errors.As(err, &pe) {
		if pe.PublicMessage != "" {
			return pe.PublicMessage
		}
		if pe.Message == "" || permissionKeyPattern.MatchString(pe.Message) {
			return fallback
		}
		return pe.Message
	}
	return fallback
}
