package serialization

import (
	"errors"
	"testing"
)

func testDocument() *Document {
	return &Document{
		FormatVersion: FormatVersion,
		InputNodes:    3,
		HiddenNodes:   2,
		OutputNodes:   2,
		TrainingRate:  0.1,
		WIH:           Matrix{V: MatrixVersion, Dim: []int{2, 3}, Data: []float64{0.1, -0.2, 0.3, 0.4, -0.5, 0.6}},
		WHO:           Matrix{V: MatrixVersion, Dim: []int{2, 2}, Data: []float64{0.7, -0.8, 0.9, 1e-7}},
	}
}

// TestComputeChecksum verifies the checksum is stable and content-sensitive.
func TestComputeChecksum(t *testing.T) {
	doc := testDocument()
	checksum1 := ComputeChecksum(doc)
	checksum2 := ComputeChecksum(testDocument())

	if checksum1 != checksum2 {
		t.Error("Checksums should match for identical documents")
	}

	// SHA-256 hex is 64 characters
	if len(checksum1) != 64 {
		t.Errorf("Expected checksum length 64, got %d", len(checksum1))
	}

	// Identity fields are not covered
	doc.ID = "something-else"
	doc.Metadata = map[string]string{"k": "v"}
	if ComputeChecksum(doc) != checksum1 {
		t.Error("Checksum should ignore id and metadata")
	}

	changes := map[string]func(d *Document){
		"weight":  func(d *Document) { d.WHO.Data[3] = 2e-7 },
		"rate":    func(d *Document) { d.TrainingRate = 0.2 },
		"size":    func(d *Document) { d.InputNodes = 4 },
		"dim":     func(d *Document) { d.WIH.Dim = []int{3, 2} },
		"swapped": func(d *Document) { d.WIH, d.WHO = d.WHO, d.WIH },
	}
	for name, change := range changes {
		d := testDocument()
		change(d)
		if ComputeChecksum(d) == checksum1 {
			t.Errorf("%s: checksum should change", name)
		}
	}
}

// TestValidateChecksum verifies checksum validation.
func TestValidateChecksum(t *testing.T) {
	doc := testDocument()

	// No stored checksum passes
	if err := ValidateChecksum(doc); err != nil {
		t.Errorf("Expected no error without checksum, got: %v", err)
	}

	doc.Checksum = ComputeChecksum(doc)
	if err := ValidateChecksum(doc); err != nil {
		t.Errorf("Expected no error for matching checksum, got: %v", err)
	}

	// Tampered weight should fail
	doc.WIH.Data[0] = 0.11
	err := ValidateChecksum(doc)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}
}
