package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the release workflow.
type Config struct {
	// ManifestPath is where the release manifest JSON lives.
	ManifestPath string `yaml:"manifest"`
	// OutputPath is where the packaged artifact is written.
	OutputPath string `yaml:"output"`
	// SigningKeyPath is an optional private key handed to the packaging tool.
	SigningKeyPath string `yaml:"signing_key"`
	// RuntimeMin is the minimum runtime requirement recorded in manifest entries.
	RuntimeMin string `yaml:"runtime_min"`
	// PackagerCommand is the external packaging tool invoked with a JSON config file.
	PackagerCommand string `yaml:"packager_command"`
	// PackagerBaseConfig is the base configuration template merged under build overrides.
	PackagerBaseConfig string `yaml:"packager_base_config"`
	// DepsCommand is the external dependency-installation tool.
	DepsCommand string `yaml:"deps_command"`
	// VendorDir is the local dependency directory wiped before reinstall.
	VendorDir string `yaml:"vendor_dir"`
	// VCSCommand is the version-control tool queried for changelog text.
	VCSCommand string `yaml:"vcs_command"`
	// SourceRoot is the root of the source tree being packaged.
	SourceRoot string `yaml:"source_root"`
}

const (
	// DefaultConfigFilename is the default filename for workflow settings.
	DefaultConfigFilename = "relman.yaml"

	// DefaultManifestPath is the default location of the release manifest.
	DefaultManifestPath = "dist/manifest.json"

	// DefaultOutputPath is the default location of the packaged artifact.
	DefaultOutputPath = "dist/app.phar"

	// DefaultRuntimeMin is the default minimum runtime requirement.
	DefaultRuntimeMin = "5.5.9"

	// DefaultPackagerCommand builds a single-file executable from a JSON config.
	DefaultPackagerCommand = "box"

	// DefaultPackagerBaseConfig is the template the build overrides are merged onto.
	DefaultPackagerBaseConfig = "box.json.dist"

	// DefaultDepsCommand reinstalls pinned production dependencies.
	DefaultDepsCommand = "composer"

	// DefaultVendorDir is the local dependency directory.
	DefaultVendorDir = "vendor"

	// DefaultVCSCommand queries commit history for changelog text.
	DefaultVCSCommand = "git"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: all settings have defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	} else if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultManifestPath
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	if cfg.RuntimeMin == "" {
		cfg.RuntimeMin = DefaultRuntimeMin
	}

	if cfg.PackagerCommand == "" {
		cfg.PackagerCommand = DefaultPackagerCommand
	}

	if cfg.PackagerBaseConfig == "" {
		cfg.PackagerBaseConfig = DefaultPackagerBaseConfig
	}

	if cfg.DepsCommand == "" {
		cfg.DepsCommand = DefaultDepsCommand
	}

	if cfg.VendorDir == "" {
		cfg.VendorDir = DefaultVendorDir
	}

	if cfg.VCSCommand == "" {
		cfg.VCSCommand = DefaultVCSCommand
	}

	if cfg.SourceRoot == "" {
		cfg.SourceRoot = "."
	}

	if _, err := version.NewVersion(cfg.RuntimeMin); err != nil {
		return fmt.Errorf("invalid minimum runtime requirement %q: %w", cfg.RuntimeMin, err)
	}

	return nil
}
