// Package apperror defines the error taxonomy shared across layers.
// Services surface one of these kinds rather than recovering locally; the
// HTTP layer maps them to responses. Wrap with fmt.Errorf("...: %w", err)
// to add call-site context.
package apperror

import "errors"

var (
	// ErrValidation covers malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication covers password mismatches and tokens that are
	// signature-valid but no longer on the user's session list.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidToken covers malformed, unsigned, or badly formatted tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound means no user matched the given id or email.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a unique constraint was violated (duplicate email).
	ErrConflict = errors.New("conflict")
)
