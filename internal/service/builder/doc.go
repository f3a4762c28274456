// Package builder drives the external packaging tool that turns the source
// tree into a single-file executable artifact. The merged build
// configuration lives in a uniquely-named temporary file for exactly the
// duration of the subprocess call, and a zero exit status is only trusted
// if the expected artifact actually exists afterwards.
package builder
