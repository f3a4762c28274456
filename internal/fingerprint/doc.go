// Package fingerprint computes the content hashes and byte size recorded
// for every published artifact. SHA-1 is kept only because older installed
// clients verify it; SHA-256 is the integrity-bearing hash.
package fingerprint
