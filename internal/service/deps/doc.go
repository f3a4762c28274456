// Package deps reinstalls a clean production dependency set before
// packaging, so stale or locally-modified dependencies never leak into the
// published artifact.
package deps
