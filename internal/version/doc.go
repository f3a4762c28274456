// Package version exposes build metadata for relman itself.
//
// Version, Commit, and BuildTime are injected at release time via Go
// ldflags and fall back to development defaults for local builds. The
// current Version is also the version published into the release manifest
// unless the caller overrides it on the command line.
package version
