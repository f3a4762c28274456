package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilePermissions is applied to the manifest file on write.
const DefaultFilePermissions = 0o644

// Load reads and decodes the manifest document at path.
func Load(path string) (Document, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc Document
	if err = json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return doc, nil
}

// Save writes the document to path as pretty-printed JSON with forward
// slashes left unescaped. The write is atomic: contents go to a temporary
// file in the same directory which is then renamed over the target, so a
// failure never corrupts the manifest already on disk.
func (d Document) Save(path string) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	path = filepath.Clean(path)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temporary manifest: %w", err)
	}

	tmpName := tmp.Name()

	// The rename below consumes the temp file; removal only matters on failure.
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write manifest: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}

	if err = os.Chmod(tmpName, DefaultFilePermissions); err != nil {
		return fmt.Errorf("chmod manifest: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}

	return nil
}
