package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidConfig  = errors.New("invalid network configuration")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrMissingWeights = errors.New("missing weights in state dict")
)

// ShapeError reports a vector or matrix whose dimensions disagree with the
// network's configured layer sizes.
type ShapeError struct {
	Op      string // Operation that rejected the operand (e.g., "Train")
	Operand string // Operand name (e.g., "input", "target", "wih")
	Want    any    // Expected length or shape
	Got     any    // Actual length or shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s shape mismatch: want %v, got %v", e.Op, e.Operand, e.Want, e.Got)
}

// Is reports ErrShapeMismatch as a match so callers can use errors.Is.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
