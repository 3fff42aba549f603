package serialization

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// WriteFile writes doc to path, choosing the encoding from the file extension.
//
// The document is completed before encoding: format_version is set to the
// current version, a missing id or created_at is filled in, and the checksum
// is recomputed. doc itself is not modified.
//
// The file is replaced atomically: data goes to a temporary file in the same
// directory, which is then renamed over path.
func WriteFile(path string, doc *Document) error {
	out := Prepare(doc)

	data, err := Marshal(out, EncodingForPath(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}

	return nil
}

// Prepare returns a copy of doc ready for encoding: current format version,
// an id and creation time if missing, and a fresh checksum.
func Prepare(doc *Document) *Document {
	out := *doc
	out.FormatVersion = FormatVersion
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	out.Checksum = ComputeChecksum(&out)
	return &out
}
