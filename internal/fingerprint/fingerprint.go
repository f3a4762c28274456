package fingerprint

import (
	"crypto/sha1" //nolint:gosec // Legacy clients still verify the SHA-1 field.
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Fingerprint identifies the exact content of an artifact.
type Fingerprint struct {
	// SHA1 is the legacy content hash as lowercase hex.
	SHA1 string
	// SHA256 is the strong content hash as lowercase hex.
	SHA256 string
	// Size is the artifact size in bytes.
	Size int64
}

// File hashes the file at path in a single streaming pass.
func File(path string) (Fingerprint, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open artifact: %w", err)
	}

	// Best-effort close, the file is only read.
	defer func() {
		_ = f.Close()
	}()

	legacy := sha1.New() //nolint:gosec // See above.
	strong := sha256.New()

	size, err := io.Copy(io.MultiWriter(legacy, strong), f)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("hash artifact: %w", err)
	}

	return Fingerprint{
		SHA1:   hex.EncodeToString(legacy.Sum(nil)),
		SHA256: hex.EncodeToString(strong.Sum(nil)),
		Size:   size,
	}, nil
}
