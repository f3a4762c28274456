package manifest

import (
	"fmt"
	"strings"

	version "github.com/hashicorp/go-version"
)

// Policy selects how a release is recorded in the manifest.
type Policy string

const (
	// PolicyUpdateLatest mutates the entry carrying the greatest version.
	PolicyUpdateLatest Policy = "update-latest"
	// PolicyAdd prepends a brand-new entry.
	PolicyAdd Policy = "add"
)

// ParsePolicy validates a policy value from the command line.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyUpdateLatest, PolicyAdd:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unrecognized manifest update policy %q (expected %q or %q)",
			s, PolicyUpdateLatest, PolicyAdd)
	}
}

// Release is the data recorded for one published artifact.
type Release struct {
	// Version is the semantic version being published.
	Version string
	// SHA1 is the legacy fingerprint, lowercase hex.
	SHA1 string
	// SHA256 is the strong fingerprint, lowercase hex.
	SHA256 string
	// Name is the artifact base filename.
	Name string
	// RuntimeMin is the minimum runtime requirement for this release.
	RuntimeMin string
	// Changelog is the formatted commit log since the previous release;
	// empty means no upgrade note is recorded.
	Changelog string
}

// Update applies the release to the document under the given policy and
// returns the resulting document together with the index of the touched
// entry. The input document is not shared with the result's target entry:
// mutation happens via the returned index, never through aliased pointers.
func Update(doc Document, policy Policy, rel Release) (Document, int, error) {
	newVer, err := version.NewVersion(rel.Version)
	if err != nil {
		return nil, 0, fmt.Errorf("malformed release version %q: %w", rel.Version, err)
	}

	// The previous published version bounds the upgrade note below.
	oldVersion := ""
	if len(doc) > 0 {
		if oldVersion, err = doc.LatestVersion(); err != nil {
			return nil, 0, err
		}
	}

	var target int

	switch policy {
	case PolicyUpdateLatest:
		target, err = doc.LatestIndex()
		if err != nil {
			return nil, 0, err
		}

		if err = ensureNoCollision(doc, newVer, target); err != nil {
			return nil, 0, err
		}

		// Copy before mutating so callers holding the old document
		// never observe a half-updated entry.
		entry := *doc[target]
		entry.Updating = append([]*UpgradeNote(nil), entry.Updating...)
		entry.URL = replaceVersion(entry.URL, entry.Version, rel.Version)
		doc[target] = &entry
	case PolicyAdd:
		if err = ensureNoCollision(doc, newVer, -1); err != nil {
			return nil, 0, err
		}

		doc = append(Document{new(Entry)}, doc...)
		target = 0
	default:
		return nil, 0, fmt.Errorf("unrecognized manifest update policy %q", policy)
	}

	entry := doc[target]
	entry.Version = rel.Version
	entry.SHA1 = rel.SHA1
	entry.SHA256 = rel.SHA256
	entry.Name = rel.Name
	entry.Runtime.Min = rel.RuntimeMin

	if rel.Changelog != "" && noteBoundsValid(oldVersion, newVer) {
		entry.Updating = append(entry.Updating, &UpgradeNote{
			Notes:    rel.Changelog,
			ShowFrom: oldVersion,
			HideFrom: rel.Version,
		})
	}

	return doc, target, nil
}

// noteBoundsValid reports whether the previous version can be the lower
// bound of a note hidden from newVer. Backports and downgrades publish a
// version at or below the previous latest; recording a note there would
// invert the show-from < hide-from invariant and poison the manifest for
// every later load.
func noteBoundsValid(oldVersion string, newVer *version.Version) bool {
	if oldVersion == "" {
		return false
	}

	oldVer, err := version.NewVersion(oldVersion)
	if err != nil {
		return false
	}

	return oldVer.LessThan(newVer)
}

// ensureNoCollision rejects a release whose version equals any existing
// entry's version, skipping the entry about to be overwritten.
func ensureNoCollision(doc Document, candidate *version.Version, skip int) error {
	for i, entry := range doc {
		if i == skip {
			continue
		}

		existing, err := version.NewVersion(entry.Version)
		if err != nil {
			return fmt.Errorf("entry %d has malformed version %q: %w", i, entry.Version, err)
		}

		if existing.Equal(candidate) {
			return fmt.Errorf("%s: %w", entry.Version, ErrDuplicateVersion)
		}
	}

	return nil
}

// replaceVersion swaps the old version substring inside a URL template for
// the new one, preserving the rest of the URL.
func replaceVersion(url, oldVersion, newVersion string) string {
	if url == "" || oldVersion == "" {
		return url
	}

	return strings.ReplaceAll(url, oldVersion, newVersion)
}
