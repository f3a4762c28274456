// Package release orchestrates the build-and-publish workflow: prepare
// dependencies, build the artifact, fingerprint it, extract the changelog,
// and record everything in the release manifest. Stages run strictly in
// sequence and the first failure halts the workflow; completed stages are
// not rolled back, so a built artifact survives a later manifest failure.
package release
