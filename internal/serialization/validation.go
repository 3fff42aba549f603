package serialization

import (
	"fmt"
	"math"
)

// Validation limits for resource protection.
const (
	MaxDocumentSize = 1 << 30 // 1GB - maximum encoded document size
	MaxLayerSize    = 1 << 20 // Maximum node count of a single layer
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks structure only: version, sizes, rate and matrix dimensions.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// ValidateDocument checks that doc describes a consistent network.
//
// Normal validation covers the format version, layer sizes, training rate and
// matrix dimensions. Strict validation additionally rejects non-finite
// weights and verifies the checksum when one is stored.
func ValidateDocument(doc *Document, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	// Files without format_version predate it and use the version 1 layout.
	if doc.FormatVersion < 0 || doc.FormatVersion > FormatVersion {
		return fmt.Errorf("%w: got %d, max %d", ErrUnsupportedVersion, doc.FormatVersion, FormatVersion)
	}

	for _, s := range []struct {
		name string
		v    int
	}{
		{"input_nodes", doc.InputNodes},
		{"hidden_nodes", doc.HiddenNodes},
		{"output_nodes", doc.OutputNodes},
	} {
		if s.v <= 0 || s.v > MaxLayerSize {
			return &ValidationError{
				Type:    "invalid_size",
				Field:   s.name,
				Details: fmt.Sprintf("got %d, want 1..%d", s.v, MaxLayerSize),
				Err:     ErrInvalidSize,
			}
		}
	}

	if !(doc.TrainingRate > 0) || math.IsInf(doc.TrainingRate, 0) {
		return &ValidationError{
			Type:    "invalid_rate",
			Field:   "training_rate",
			Details: fmt.Sprintf("got %v, want positive finite value", doc.TrainingRate),
			Err:     ErrInvalidRate,
		}
	}

	if err := validateMatrix("wih", doc.WIH, doc.HiddenNodes, doc.InputNodes); err != nil {
		return err
	}
	if err := validateMatrix("who", doc.WHO, doc.OutputNodes, doc.HiddenNodes); err != nil {
		return err
	}

	if level == ValidationStrict {
		if err := validateFinite("wih", doc.WIH); err != nil {
			return err
		}
		if err := validateFinite("who", doc.WHO); err != nil {
			return err
		}
		if err := ValidateChecksum(doc); err != nil {
			return err
		}
	}

	return nil
}

// validateMatrix checks the version tag, declared dims and data length of m.
func validateMatrix(name string, m Matrix, rows, cols int) error {
	if m.V != MatrixVersion {
		return &ValidationError{
			Type:    "matrix_version",
			Field:   name,
			Details: fmt.Sprintf("got v=%d, want %d", m.V, MatrixVersion),
			Err:     ErrUnsupportedVersion,
		}
	}
	if len(m.Dim) != 2 || m.Dim[0] != rows || m.Dim[1] != cols {
		return &ValidationError{
			Type:    "dimension_mismatch",
			Field:   name,
			Details: fmt.Sprintf("dim %v, want [%d %d]", m.Dim, rows, cols),
			Err:     ErrDimensionMismatch,
		}
	}
	if len(m.Data) != rows*cols {
		return &ValidationError{
			Type:    "dimension_mismatch",
			Field:   name,
			Details: fmt.Sprintf("%d values, want %d", len(m.Data), rows*cols),
			Err:     ErrDimensionMismatch,
		}
	}
	return nil
}

func validateFinite(name string, m Matrix) error {
	for i, v := range m.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{
				Type:    "non_finite",
				Field:   name,
				Details: fmt.Sprintf("value %v at flat index %d", v, i),
				Err:     ErrNonFinite,
			}
		}
	}
	return nil
}
