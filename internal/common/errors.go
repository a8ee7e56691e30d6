// Package common defines shared constants and sentinel errors used across
// the credential service. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal = errors.New("internal error")

	// login rejections; unknown user and wrong password both surface as
	// ErrInvalidCredentials so the caller cannot tell them apart
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is inactive or disabled")

	// validation errors (missing or malformed request fields)
	ErrValidation = errors.New("validation error")

	// token errors (bad signature, issuer, audience, expiry or algorithm)
	ErrInvalidToken = errors.New("invalid token")

	// api gate errors
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAPIKeyNotConfigured = errors.New("api key is not configured")
)
