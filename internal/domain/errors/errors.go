// File: internal/domain/errors/errors.go
package errors

import "errors"

// Sentinel errors for the service layer. Handlers map these onto HTTP
// statuses; anything unwrapped falls through as an internal error.
var (
	ErrNotFound = errors.New("resource not found")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	// Crypto errors.
	ErrCrypto = errors.New("encryption error")

	// OAuth errors.
	ErrStateMismatch      = errors.New("oauth state mismatch")
	ErrNoAuthCode         = errors.New("authorization code missing")
	ErrProvider           = errors.New("provider error")
	ErrProviderNotFound   = errors.New("unsupported provider")
	ErrRefreshUnsupported = errors.New("token refresh not supported for this provider")

	// Connection and user errors.
	ErrConnectionDisabled = errors.New("connection is disabled")
	ErrEmailExists        = errors.New("email already in use")
)
