package release

import (
	"context"
	"os"
	"path/filepath"

	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/shell"
)

// checkPreconditions fails the workflow before any subprocess runs when the
// host cannot possibly complete it.
func (w *workflow) checkPreconditions(ctx context.Context) error {
	if _, err := w.runner.LookPath(w.cfg.PackagerCommand); err != nil {
		return &PreconditionError{Reason: "packaging tool not found on PATH", Path: w.cfg.PackagerCommand}
	}

	if !w.opts.SkipDeps {
		if _, err := w.runner.LookPath(w.cfg.DepsCommand); err != nil {
			return &PreconditionError{Reason: "dependency tool not found on PATH", Path: w.cfg.DepsCommand}
		}
	}

	if w.cfg.SigningKeyPath != "" {
		if _, err := os.Stat(w.cfg.SigningKeyPath); err != nil {
			return &PreconditionError{Reason: "signing key not found", Path: w.cfg.SigningKeyPath}
		}
	}

	if err := checkOutputWritable(w.cfg.OutputPath); err != nil {
		return err
	}

	if insideArtifact(w.cfg.OutputPath) {
		return &PreconditionError{Reason: "refusing to overwrite the currently running executable", Path: w.cfg.OutputPath}
	}

	logger.Debug(ctx, "Preconditions satisfied")

	return nil
}

// checkOutputWritable ensures the output directory exists and accepts writes.
func checkOutputWritable(outputPath string) error {
	dir := filepath.Dir(outputPath)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PreconditionError{Reason: "cannot create output directory", Path: dir}
	}

	probe, err := os.CreateTemp(dir, ".relman-probe-*")
	if err != nil {
		return &PreconditionError{Reason: "output directory is not writable", Path: dir}
	}

	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return nil
}

// insideArtifact reports whether the workflow itself runs from the artifact
// it is about to produce.
func insideArtifact(outputPath string) bool {
	self, err := os.Executable()
	if err != nil {
		return false
	}

	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return false
	}

	absSelf, err := filepath.Abs(self)
	if err != nil {
		return false
	}

	return absSelf == absOutput
}

// resolveRunner defaults to real subprocess execution.
func resolveRunner(r shell.Runner) shell.Runner {
	if r != nil {
		return r
	}

	return shell.NewExecRunner()
}
