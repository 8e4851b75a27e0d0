package identity

import "errors"

// Domain-specific errors for credential preparation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEmptyCredential is returned when a credential buffer is empty.
	// This is a caller error surfaced before session construction.
	ErrEmptyCredential = errors.New("identity: credential buffer is empty")

	// ErrBadCredential is returned when credential material cannot be
	// parsed as PEM-encoded certificates or keys.
	ErrBadCredential = errors.New("identity: malformed credential material")
)
