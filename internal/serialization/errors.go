package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrDimensionMismatch  = errors.New("matrix dimensions inconsistent with layer sizes")
	ErrInvalidSize        = errors.New("invalid layer size")
	ErrInvalidRate        = errors.New("invalid training rate")
	ErrNonFinite          = errors.New("non-finite weight value")
	ErrDocumentTooLarge   = errors.New("document exceeds maximum size")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "dimension_mismatch", "non_finite")
	Field   string // Document field involved (e.g., "wih")
	Details string // Additional details
	Err     error  // Sentinel error this failure belongs to
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the sentinel error, so errors.Is works on validation failures.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
