package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// ComputeChecksum returns the hex SHA-256 of the numeric content of doc:
// the three layer sizes, the training rate and both matrices (dims + data).
// Identity fields (id, timestamps, metadata) are not covered.
func ComputeChecksum(doc *Document) string {
	h := sha256.New()
	writeUint(h, doc.InputNodes)
	writeUint(h, doc.HiddenNodes)
	writeUint(h, doc.OutputNodes)
	writeFloat(h, doc.TrainingRate)
	writeMatrix(h, doc.WIH)
	writeMatrix(h, doc.WHO)
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateChecksum compares the stored checksum against the content.
// Documents without a checksum pass. Returns ErrChecksumMismatch otherwise.
func ValidateChecksum(doc *Document) error {
	if doc.Checksum == "" {
		return nil
	}
	if ComputeChecksum(doc) != doc.Checksum {
		return ErrChecksumMismatch
	}
	return nil
}

func writeMatrix(h hash.Hash, m Matrix) {
	writeUint(h, len(m.Dim))
	for _, d := range m.Dim {
		writeUint(h, d)
	}
	writeUint(h, len(m.Data))
	for _, v := range m.Data {
		writeFloat(h, v)
	}
}

func writeUint(h hash.Hash, v int) {
	var buf [8]byte
	//nolint:gosec // G115: sizes are validated non-negative before they matter
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func writeFloat(h hash.Hash, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	h.Write(buf[:])
}
