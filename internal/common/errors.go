// Package common defines sentinel errors shared across telefeed layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Account uniqueness errors. The database unique constraints are the
	// source of truth; existence checks before insert are a fast path only.
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")

	// Message ingestion errors.
	ErrMessageExists = errors.New("message already exists")
	ErrBlankText     = errors.New("text must not be blank")
)
