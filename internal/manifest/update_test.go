package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParsePolicy accepts the two known policies and rejects everything else.
func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("update-latest")
	require.NoError(t, err)
	require.Equal(t, PolicyUpdateLatest, p)

	p, err = ParsePolicy("add")
	require.NoError(t, err)
	require.Equal(t, PolicyAdd, p)

	_, err = ParsePolicy("bogus")
	require.Error(t, err)
}

// TestUpdateLatestOutOfOrder mutates the semver-greatest entry even when it
// is not last in the sequence, and appends exactly one bounded upgrade note.
func TestUpdateLatestOutOfOrder(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "3.9.0"},
		{Version: "3.8.10"},
		{Version: "3.10.0", URL: "https://example.com/v3.10.0/platform.phar"},
	}

	updated, i, err := Update(doc, PolicyUpdateLatest, Release{
		Version:    "3.11.0",
		SHA1:       "aa",
		SHA256:     "bb",
		Name:       "platform.phar",
		RuntimeMin: "5.5.9",
		Changelog:  "* Fix things",
	})
	require.NoError(t, err)
	require.Equal(t, 2, i)

	entry := updated[i]
	require.Equal(t, "3.11.0", entry.Version)
	require.Equal(t, "aa", entry.SHA1)
	require.Equal(t, "bb", entry.SHA256)
	require.Equal(t, "platform.phar", entry.Name)
	require.Equal(t, "5.5.9", entry.Runtime.Min)
	require.Equal(t, "https://example.com/v3.11.0/platform.phar", entry.URL)

	require.Len(t, entry.Updating, 1)
	require.Equal(t, "3.10.0", entry.Updating[0].ShowFrom)
	require.Equal(t, "3.11.0", entry.Updating[0].HideFrom)
	require.Equal(t, "* Fix things", entry.Updating[0].Notes)

	// Untouched entries keep their positions and values.
	require.Equal(t, "3.9.0", updated[0].Version)
	require.Equal(t, "3.8.10", updated[1].Version)
}

// TestUpdateLatestEmptyChangelog leaves existing upgrade notes untouched
// when no changelog text was produced.
func TestUpdateLatestEmptyChangelog(t *testing.T) {
	t.Parallel()

	doc := Document{{
		Version: "1.0.0",
		Updating: []*UpgradeNote{
			{Notes: "old", ShowFrom: "0.9.0", HideFrom: "1.0.0"},
		},
	}}

	updated, i, err := Update(doc, PolicyUpdateLatest, Release{Version: "1.1.0"})
	require.NoError(t, err)
	require.Len(t, updated[i].Updating, 1)
	require.Equal(t, "old", updated[i].Updating[0].Notes)
}

// TestUpdateLatestAppendsNotReplaces verifies notes accumulate across releases.
func TestUpdateLatestAppendsNotReplaces(t *testing.T) {
	t.Parallel()

	doc := Document{{
		Version: "1.0.0",
		Updating: []*UpgradeNote{
			{Notes: "old", ShowFrom: "0.9.0", HideFrom: "1.0.0"},
		},
	}}

	updated, i, err := Update(doc, PolicyUpdateLatest, Release{
		Version:   "1.1.0",
		Changelog: "* New things",
	})
	require.NoError(t, err)
	require.Len(t, updated[i].Updating, 2)
	require.Equal(t, "old", updated[i].Updating[0].Notes)
	require.Equal(t, "1.0.0", updated[i].Updating[1].ShowFrom)
	require.Equal(t, "1.1.0", updated[i].Updating[1].HideFrom)
}

// TestUpdateLatestEmptyManifest fails when there is nothing to update.
func TestUpdateLatestEmptyManifest(t *testing.T) {
	t.Parallel()

	_, _, err := Update(Document{}, PolicyUpdateLatest, Release{Version: "1.0.0"})
	require.ErrorIs(t, err, ErrEmptyManifest)
}

// TestUpdateAddEmptyManifest prepends a fresh entry into an empty document.
func TestUpdateAddEmptyManifest(t *testing.T) {
	t.Parallel()

	updated, i, err := Update(Document{}, PolicyAdd, Release{
		Version:    "1.0.0",
		Name:       "cli.phar",
		RuntimeMin: "7.0.0",
	})
	require.NoError(t, err)
	require.Equal(t, 0, i)
	require.Len(t, updated, 1)
	require.Equal(t, "1.0.0", updated[0].Version)
	require.Empty(t, updated[0].Updating)
}

// TestUpdateAddPrepends inserts the new entry at the front regardless of
// version order and records the note against the previous latest version.
func TestUpdateAddPrepends(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "2.0.0"},
		{Version: "3.0.0"},
	}

	updated, i, err := Update(doc, PolicyAdd, Release{
		Version:   "3.1.0",
		Changelog: "* More",
	})
	require.NoError(t, err)
	require.Equal(t, 0, i)
	require.Len(t, updated, 3)
	require.Equal(t, "3.1.0", updated[0].Version)
	require.Equal(t, "2.0.0", updated[1].Version)

	require.Len(t, updated[0].Updating, 1)
	require.Equal(t, "3.0.0", updated[0].Updating[0].ShowFrom)
	require.Equal(t, "3.1.0", updated[0].Updating[0].HideFrom)
}

// TestUpdateDuplicateVersion rejects releases colliding with another entry.
func TestUpdateDuplicateVersion(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "1.0.0"},
		{Version: "2.0.0"},
	}

	// add with an existing version.
	_, _, err := Update(doc, PolicyAdd, Release{Version: "1.0.0"})
	require.ErrorIs(t, err, ErrDuplicateVersion)

	// update-latest colliding with a non-latest entry.
	_, _, err = Update(doc, PolicyUpdateLatest, Release{Version: "1.0.0"})
	require.ErrorIs(t, err, ErrDuplicateVersion)

	// Republishing the latest version over itself is allowed.
	updated, i, err := Update(doc, PolicyUpdateLatest, Release{Version: "2.0.0", Changelog: "* x"})
	require.NoError(t, err)
	require.Equal(t, "2.0.0", updated[i].Version)
	// Equal old and new versions cannot bound a note.
	require.Empty(t, updated[i].Updating)
}

// TestUpdateBackportSkipsNote publishes a version below the current latest
// and verifies no inverted upgrade note is recorded: the resulting manifest
// must still validate, otherwise every later release would fail to load it.
func TestUpdateBackportSkipsNote(t *testing.T) {
	t.Parallel()

	doc := Document{{Version: "3.10.0"}}

	updated, i, err := Update(doc, PolicyAdd, Release{
		Version:   "3.9.5",
		Changelog: "* Backport fix",
	})
	require.NoError(t, err)
	require.Equal(t, "3.9.5", updated[i].Version)
	require.Empty(t, updated[i].Updating)
	require.NoError(t, updated.Validate())
}

// TestUpdateLatestDowngradeSkipsNote covers the same guard under update-latest.
func TestUpdateLatestDowngradeSkipsNote(t *testing.T) {
	t.Parallel()

	doc := Document{
		{Version: "3.10.0"},
		{Version: "3.8.0"},
	}

	updated, i, err := Update(doc, PolicyUpdateLatest, Release{
		Version:   "3.9.0",
		Changelog: "* Roll back",
	})
	require.NoError(t, err)
	require.Equal(t, 0, i)
	require.Equal(t, "3.9.0", updated[i].Version)
	require.Empty(t, updated[i].Updating)
	require.NoError(t, updated.Validate())
}

// TestUpdateDoesNotAliasInput ensures update-latest does not mutate the
// caller's entry through a shared pointer.
func TestUpdateDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	original := &Entry{Version: "1.0.0", URL: "https://example.com/v1.0.0/cli.phar"}
	doc := Document{original}

	_, _, err := Update(doc, PolicyUpdateLatest, Release{Version: "1.1.0"})
	require.NoError(t, err)
	require.Equal(t, "1.0.0", original.Version)
	require.Equal(t, "https://example.com/v1.0.0/cli.phar", original.URL)
}

// TestReplaceVersionInURL covers the URL template substitution.
func TestReplaceVersionInURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://example.com/v3.10.0/platform.phar",
		replaceVersion("https://example.com/v3.9.0/platform.phar", "3.9.0", "3.10.0"))

	// Missing pieces leave the URL untouched.
	require.Equal(t, "", replaceVersion("", "1", "2"))
	require.Equal(t, "https://x/y", replaceVersion("https://x/y", "", "2"))
}
