package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLatestIndexSemverOrder ensures the latest entry is picked by semantic
// version precedence, not by array position or lexical order.
func TestLatestIndexSemverOrder(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "3.9.0"},
		{Version: "3.8.10"},
		{Version: "3.10.0"},
	}

	i, err := doc.LatestIndex()
	require.NoError(t, err)
	require.Equal(t, 2, i)

	v, err := doc.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, "3.10.0", v)
}

// TestLatestIndexPrerelease checks that prereleases order below their release.
func TestLatestIndexPrerelease(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "3.8.0-alpha"},
		{Version: "3.8.0"},
	}

	i, err := doc.LatestIndex()
	require.NoError(t, err)
	require.Equal(t, 1, i)
}

// TestLatestIndexEmpty verifies the empty-manifest error.
func TestLatestIndexEmpty(t *testing.T) {
	t.Parallel()

	_, err := Document{}.LatestIndex()
	require.ErrorIs(t, err, ErrEmptyManifest)
}

// TestLatestIndexMalformedVersion surfaces unparsable entry versions.
func TestLatestIndexMalformedVersion(t *testing.T) {
	t.Parallel()

	_, err := Document{{Version: "not-a-version"}}.LatestIndex()
	require.Error(t, err)
}

// TestValidateDuplicateVersions rejects manifests with colliding versions.
func TestValidateDuplicateVersions(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "1.0.0"},
		{Version: "1.0.0"},
	}
	require.ErrorIs(t, doc.Validate(), ErrDuplicateVersion)

	doc = Document{
		{Version: "1.0.0"},
		{Version: "1.0.1"},
	}
	require.NoError(t, doc.Validate())
}

// TestValidateNoteBounds enforces show-from < hide-from on upgrade notes.
func TestValidateNoteBounds(t *testing.T) {
	t.Parallel()

	doc := Document{{
		Version: "2.0.0",
		Updating: []*UpgradeNote{
			{Notes: "x", ShowFrom: "2.0.0", HideFrom: "1.0.0"},
		},
	}}
	require.Error(t, doc.Validate())

	// Open bounds are allowed on either side.
	doc = Document{{
		Version: "2.0.0",
		Updating: []*UpgradeNote{
			{Notes: "x", HideFrom: "2.0.0"},
			{Notes: "y", ShowFrom: "1.0.0"},
		},
	}}
	require.NoError(t, doc.Validate())
}
