package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileKnownContent verifies hashes and size against precomputed values.
func TestFileKnownContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artifact.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	fp, err := File(path)
	require.NoError(t, err)
	require.Equal(t, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", fp.SHA1)
	require.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", fp.SHA256)
	require.Equal(t, int64(11), fp.Size)
}

// TestFileDeterministic ensures hashing the same content twice yields identical results.
func TestFileDeterministic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artifact.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0xff}, 0o600))

	first, err := File(path)
	require.NoError(t, err)

	second, err := File(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// TestFileMissing reports an error for a nonexistent path.
func TestFileMissing(t *testing.T) {
	t.Parallel()

	_, err := File(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
