package manifest

import (
	"errors"
	"fmt"

	version "github.com/hashicorp/go-version"
)

// Document is the ordered sequence of release entries as stored on disk.
// Order is insertion order; it is not required to be sorted by version.
type Document []*Entry

// Entry describes one published release artifact.
type Entry struct {
	// Name is the artifact base filename.
	Name string `json:"name"`
	// SHA1 is the legacy content hash, lowercase hex.
	SHA1 string `json:"sha1"`
	// SHA256 is the strong content hash, lowercase hex.
	SHA256 string `json:"sha256"`
	// URL is where installers download the artifact from.
	URL string `json:"url"`
	// Version is the semantic version of the release, unique per manifest.
	Version string `json:"version"`
	// Runtime carries the runtime requirements of the release.
	Runtime Runtime `json:"runtime"`
	// Updating are the upgrade notes shown to users crossing version ranges.
	Updating []*UpgradeNote `json:"updating,omitempty"`
}

// Runtime holds the runtime requirements recorded per release.
type Runtime struct {
	// Min is the minimum runtime version required to run the artifact.
	Min string `json:"min"`
}

// UpgradeNote is a versioned, bounded-visibility changelog record.
type UpgradeNote struct {
	// Notes is free markdown-like text shown to the user.
	Notes string `json:"notes"`
	// ShowFrom is the inclusive lower bound of installed versions the note applies to.
	ShowFrom string `json:"show_from,omitempty"`
	// HideFrom is the exclusive upper bound of installed versions the note applies to.
	HideFrom string `json:"hide_from,omitempty"`
}

var (
	// ErrEmptyManifest is returned when an operation needs at least one entry.
	ErrEmptyManifest = errors.New("manifest has no entries")
	// ErrDuplicateVersion is returned when a release would collide with an existing entry.
	ErrDuplicateVersion = errors.New("version already present in manifest")
)

// LatestIndex returns the index of the entry with the greatest semantic
// version. Versions are compared by semver precedence, not lexically.
func (d Document) LatestIndex() (int, error) {
	if len(d) == 0 {
		return 0, ErrEmptyManifest
	}

	var (
		latest    = -1
		latestVer *version.Version
	)

	for i, entry := range d {
		v, err := version.NewVersion(entry.Version)
		if err != nil {
			return 0, fmt.Errorf("entry %d has malformed version %q: %w", i, entry.Version, err)
		}

		if latestVer == nil || v.GreaterThan(latestVer) {
			latest, latestVer = i, v
		}
	}

	return latest, nil
}

// LatestVersion returns the version string of the latest entry.
func (d Document) LatestVersion() (string, error) {
	i, err := d.LatestIndex()
	if err != nil {
		return "", err
	}

	return d[i].Version, nil
}

// Validate checks manifest invariants: every version parses and is unique,
// and every upgrade note with both bounds has show-from below hide-from.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d))

	for i, entry := range d {
		v, err := version.NewVersion(entry.Version)
		if err != nil {
			return fmt.Errorf("entry %d has malformed version %q: %w", i, entry.Version, err)
		}

		key := v.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("entry %d (%s): %w", i, entry.Version, ErrDuplicateVersion)
		}

		seen[key] = struct{}{}

		for j, note := range entry.Updating {
			if err = note.validateBounds(); err != nil {
				return fmt.Errorf("entry %d note %d: %w", i, j, err)
			}
		}
	}

	return nil
}

// validateBounds enforces show-from < hide-from when both bounds are present.
// A note missing a bound is open on that side.
func (n *UpgradeNote) validateBounds() error {
	if n.ShowFrom == "" || n.HideFrom == "" {
		return nil
	}

	show, err := version.NewVersion(n.ShowFrom)
	if err != nil {
		return fmt.Errorf("malformed show-from %q: %w", n.ShowFrom, err)
	}

	hide, err := version.NewVersion(n.HideFrom)
	if err != nil {
		return fmt.Errorf("malformed hide-from %q: %w", n.HideFrom, err)
	}

	if !show.LessThan(hide) {
		return fmt.Errorf("show-from %s is not below hide-from %s", n.ShowFrom, n.HideFrom)
	}

	return nil
}
