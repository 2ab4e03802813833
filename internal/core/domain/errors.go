package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates neither a password nor a private
	// key was configured for the sink. Surfaced at connect time, never
	// retried.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrNotConnected indicates an operation was attempted on a closed
	// or never-opened sink connection.
	ErrNotConnected = errors.New("not connected")

	// ErrPermissionDenied indicates the sink refused a directory
	// creation. Unlike other mkdir failures this is always fatal.
	ErrPermissionDenied = errors.New("permission denied")
)
