// Package changelog turns version-control history between two refs into
// the bullet list recorded as an upgrade note. Extraction is best-effort:
// a missing tag or absent repository yields empty text, never a workflow
// failure.
package changelog
