package store

import "errors"

var (
	// ErrRecordNotFound is returned when a lookup matches no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when another user already has the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrSlugTaken is returned when another event already uses the slug.
	ErrSlugTaken = errors.New("event slug already taken")

	// ErrResetAlreadyUsed is returned by CompletePasswordReset when the reset
	// was consumed or revoked by a concurrent request (0 rows updated).
	ErrResetAlreadyUsed = errors.New("password reset already used")

	// ErrUnsupportedDriver is returned for an unknown DATABASE_DRIVER.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)
