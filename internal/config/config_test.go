package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default resolution and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	require.Error(t, Validate(nil))

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultManifestPath, cfg.ManifestPath)
	require.Equal(t, DefaultOutputPath, cfg.OutputPath)
	require.Equal(t, DefaultPackagerCommand, cfg.PackagerCommand)
	require.Equal(t, DefaultDepsCommand, cfg.DepsCommand)
	require.Equal(t, DefaultVCSCommand, cfg.VCSCommand)
	require.Equal(t, ".", cfg.SourceRoot)

	// Bad runtime requirement.
	cfg = &Config{RuntimeMin: "not-a-version"}
	require.Error(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "relman.yaml")

	cfg := &Config{
		ManifestPath: "dist/manifest.json",
		OutputPath:   "dist/cli.phar",
		RuntimeMin:   "7.0.0",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ManifestPath, loaded.ManifestPath)
	require.Equal(t, cfg.OutputPath, loaded.OutputPath)
	require.Equal(t, cfg.RuntimeMin, loaded.RuntimeMin)
}

// TestLoadMissingFile ensures a missing settings file yields pure defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultOutputPath, cfg.OutputPath)
}
