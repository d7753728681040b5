package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStoreUnavailable wraps driver failures. Repositories return it as
	// fmt.Errorf("%w: %w", ErrStoreUnavailable, cause).
	ErrStoreUnavailable = errors.New("booking store unavailable")
)
