package domain

import "errors"

var (
	// ErrNotFound covers every externally indistinguishable miss: the
	// record never existed, was already consumed, or has expired.
	ErrNotFound = errors.New("secret not found")

	// ErrAuthenticationFailed means the ciphertext did not authenticate
	// against the presented token and tag.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrConflict means a lookup hash already exists in the store.
	ErrConflict = errors.New("lookup hash already exists")

	// ErrExhausted means token generation kept colliding. With 48 bytes
	// of entropy this is effectively unreachable.
	ErrExhausted = errors.New("token generation retries exhausted")
)

// ValidationError rejects malformed or out-of-range caller input. It never
// partially applies any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// Validation builds a ValidationError from a reason string.
func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
