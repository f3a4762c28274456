// Package manifest models the release manifest: the ordered JSON document
// listing every published artifact with its fingerprint, minimum runtime
// requirement, and version-bounded upgrade notes. Downstream installers
// consult this document to decide whether and how to self-update.
//
// Entries are addressed by index, "latest" means the semantic-version
// maximum across all entries, never the array-order-last one.
package manifest
