package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/shell"
)

var (
	// ErrArtifactMissing means the packaging tool reported success but the
	// expected output file is absent. Subprocess exit codes are not trusted.
	ErrArtifactMissing = errors.New("packaging tool reported success but artifact is missing")
	// ErrOutputExists means the artifact path is already occupied and
	// overwriting was not allowed.
	ErrOutputExists = errors.New("artifact already exists at output path")
)

// Builder invokes the packaging tool with a merged build configuration.
type Builder struct {
	// Runner executes the packaging subprocess.
	Runner shell.Runner
	// Command is the packaging executable.
	Command string
	// BaseConfigPath is the configuration template build overrides merge onto.
	BaseConfigPath string
}

// Request carries the per-build overrides.
type Request struct {
	// SourceRoot is the tree being packaged; it becomes the build base path.
	SourceRoot string
	// OutputPath is where the artifact must appear.
	OutputPath string
	// SigningKeyPath, when set, is handed to the packaging tool.
	SigningKeyPath string
	// AllowOverwrite permits replacing an existing artifact.
	AllowOverwrite bool
}

// Build produces the artifact at the requested output path.
func (b *Builder) Build(ctx context.Context, req Request) error {
	if _, err := os.Stat(req.OutputPath); err == nil {
		if !req.AllowOverwrite {
			return fmt.Errorf("%s: %w", req.OutputPath, ErrOutputExists)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat output path: %w", err)
	}

	cfg, err := b.resolveConfig(req)
	if err != nil {
		return err
	}

	cfgPath, err := writeTempConfig(cfg)
	if err != nil {
		return err
	}

	// The temp config must disappear on every exit path.
	defer func() {
		_ = os.Remove(cfgPath)
	}()

	logger.InfoKV(ctx, "Running packaging tool", "command", b.Command, "config", cfgPath)

	err = b.Runner.Run(ctx, shell.Command{
		Name: b.Command,
		Args: []string{"build", "--config", cfgPath},
		Dir:  req.SourceRoot,
	})
	if err != nil {
		return fmt.Errorf("packaging tool: %w", err)
	}

	if _, err = os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("%s: %w", req.OutputPath, ErrArtifactMissing)
	}

	logger.InfoKV(ctx, "Artifact built", "path", req.OutputPath)

	return nil
}

// resolveConfig merges the request overrides over the base template.
func (b *Builder) resolveConfig(req Request) (map[string]any, error) {
	cfg := make(map[string]any)

	contents, err := os.ReadFile(filepath.Clean(b.BaseConfigPath))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read base build config: %w", err)
		}
	} else if err = json.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("decode base build config %s: %w", b.BaseConfigPath, err)
	}

	output, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	cfg["output"] = output
	cfg["base-path"] = req.SourceRoot

	if req.SigningKeyPath != "" {
		cfg["key"] = req.SigningKeyPath
	}

	return cfg, nil
}

// writeTempConfig persists the merged configuration to a uniquely-named
// temporary file and returns its path.
func writeTempConfig(cfg map[string]any) (string, error) {
	f, err := os.CreateTemp("", "relman-build-*.json")
	if err != nil {
		return "", fmt.Errorf("create temporary build config: %w", err)
	}

	name := f.Name()

	if err = json.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		_ = os.Remove(name)

		return "", fmt.Errorf("write temporary build config: %w", err)
	}

	if err = f.Close(); err != nil {
		_ = os.Remove(name)

		return "", fmt.Errorf("flush temporary build config: %w", err)
	}

	return name, nil
}
