package service

import "errors"

// Error taxonomy surfaced to the API layer. Handlers match these with
// errors.Is to pick the response status.
var (
	// ErrNotFound means a referenced trip, user, expense group or share
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the request payload violates a domain rule,
	// such as a negative share amount.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the write collides with existing state, such as
	// a duplicate username at signup.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized means the credential check or token resolution failed.
	ErrUnauthorized = errors.New("unauthorized")
)
