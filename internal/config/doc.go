// Package config holds the persisted settings of the release workflow:
// where the manifest and artifact live, which external commands act as the
// packaging, dependency and version-control tools, and the minimum runtime
// requirement stamped into every manifest entry.
//
// Settings load from a YAML file with defaults resolved during validation;
// command-line flags override individual fields at the CLI boundary.
package config
