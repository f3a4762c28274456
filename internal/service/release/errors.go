package release

import "fmt"

// PreconditionError reports a failed check before any subprocess ran:
// a missing tool, an unwritable path, an absent signing key.
type PreconditionError struct {
	// Reason describes the failed check.
	Reason string
	// Path is the offending path or value, when one exists.
	Path string
}

func (e *PreconditionError) Error() string {
	if e.Path == "" {
		return "precondition failed: " + e.Reason
	}

	return fmt.Sprintf("precondition failed: %s: %s", e.Reason, e.Path)
}

// SubprocessError reports a nonzero exit from an external tool.
type SubprocessError struct {
	// Tool names the failed stage's external tool.
	Tool string
	// Err is the underlying execution failure.
	Err error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// PostconditionError reports a build whose subprocess succeeded but whose
// promised artifact never appeared.
type PostconditionError struct {
	// Path is where the artifact was expected.
	Path string
	// Err is the underlying check failure.
	Err error
}

func (e *PostconditionError) Error() string {
	return fmt.Sprintf("build postcondition failed for %s: %v", e.Path, e.Err)
}

func (e *PostconditionError) Unwrap() error {
	return e.Err
}

// ManifestError reports a failure reading, validating, updating, or writing
// the release manifest.
type ManifestError struct {
	// Op is the manifest operation that failed.
	Op string
	// Err is the underlying failure.
	Err error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Op, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
