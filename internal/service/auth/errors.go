package auth

import "errors"

// Token errors. The auth middleware answers all of them with 401.
var (
	// ErrInvalidToken covers malformed tokens, bad signatures and missing claims.
	ErrInvalidToken = errors.New("invalid authentication token")

	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned when nbf or iat lies beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	ErrMissingToken = errors.New("authentication token is missing")
)
