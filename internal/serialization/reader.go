package serialization

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// ReadFile reads and validates the document at path.
// The encoding is chosen from the file extension.
func ReadFile(path string, level ValidationLevel) (*Document, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	doc, err := Read(file, EncodingForPath(path), level)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc, nil
}

// Read decodes and validates a document from r.
// Inputs larger than MaxDocumentSize are rejected with ErrDocumentTooLarge.
func Read(r io.Reader, enc Encoding, level ValidationLevel) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty %s document", enc)
	}

	doc, err := Unmarshal(data, enc)
	if err != nil {
		return nil, err
	}

	if err := ValidateDocument(doc, level); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return doc, nil
}
