// Package common defines shared constants and sentinel errors used across
// the gophnotes layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Connection manager errors.
	ErrConnection = errors.New("database connection error")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrAlreadyLoggedIn = errors.New("already logged in")

	// Account errors.
	ErrUsernameTaken = errors.New("username already exists")
	ErrConstraint    = errors.New("constraint violation")

	// Validation errors.
	ErrInvalidUsername        = errors.New("invalid username")
	ErrInvalidPassword        = errors.New("password does not satisfy policy")
	ErrValidationUnavailable  = errors.New("password validation unavailable")
	ErrEmptyTitle             = errors.New("note title is empty")
	ErrUnknownHashingMode     = errors.New("unknown password hashing mode")
	ErrUnknownPasswordChecker = errors.New("unknown password check mode")

	// Archive errors.
	ErrArchiveDisabled = errors.New("archive storage is not configured")
)
