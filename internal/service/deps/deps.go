package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/shell"
)

// Preparer wipes the local dependency directory and reinstalls exact pinned
// production dependencies through the external dependency tool.
type Preparer struct {
	// Runner executes the dependency subprocess.
	Runner shell.Runner
	// Command is the dependency tool executable.
	Command string
	// VendorDir is the local dependency directory, relative to the source root.
	VendorDir string
}

// Prepare reinstalls dependencies inside the source tree.
func (p *Preparer) Prepare(ctx context.Context, sourceRoot string) error {
	vendor := filepath.Join(sourceRoot, p.VendorDir)

	logger.InfoKV(ctx, "Removing local dependency directory", "path", vendor)

	if err := os.RemoveAll(vendor); err != nil {
		return fmt.Errorf("remove dependency directory: %w", err)
	}

	logger.InfoKV(ctx, "Installing production dependencies", "command", p.Command)

	err := p.Runner.Run(ctx, shell.Command{
		Name: p.Command,
		Args: []string{
			"install",
			"--no-dev",
			"--prefer-dist",
			"--no-interaction",
			"--no-progress",
			"--classmap-authoritative",
		},
		Dir: sourceRoot,
	})
	if err != nil {
		return fmt.Errorf("dependency tool: %w", err)
	}

	return nil
}
