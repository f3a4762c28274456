package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	version "github.com/hashicorp/go-version"

	"github.com/shipkit/relman/internal/changelog"
	"github.com/shipkit/relman/internal/config"
	"github.com/shipkit/relman/internal/fingerprint"
	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/manifest"
	"github.com/shipkit/relman/internal/service/builder"
	"github.com/shipkit/relman/internal/service/deps"
	"github.com/shipkit/relman/internal/shell"
	appversion "github.com/shipkit/relman/internal/version"
)

// Options contains inputs for the release entry point. Empty string fields
// fall back to the loaded settings file.
type Options struct {
	// ConfigPath is the path to the workflow settings file.
	ConfigPath string
	// OutputPath overrides the artifact output path.
	OutputPath string
	// SigningKeyPath overrides the signing key handed to the packaging tool.
	SigningKeyPath string
	// ManifestPath overrides the manifest location.
	ManifestPath string
	// Policy is the manifest update policy, update-latest or add.
	Policy string
	// Version is the version being published; defaults to the build version.
	Version string
	// SkipDeps skips the dependency reinstall stage.
	SkipDeps bool
	// AllowOverwrite permits replacing an existing artifact.
	AllowOverwrite bool
	// DryRun runs every stage except the final manifest write.
	DryRun bool
	// Runner overrides subprocess execution; nil means real subprocesses.
	Runner shell.Runner
}

// errReleaseRunning indicates another release is already in progress.
var errReleaseRunning = errors.New("a release is already in progress")

// workflow carries the resolved state of one release run.
type workflow struct {
	opts   *Options
	cfg    *config.Config
	policy manifest.Policy
	runner shell.Runner
	// releaseVersion is the version being published.
	releaseVersion string
}

// Run executes the release workflow.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "relman")

	w, err := newWorkflow(opts)
	if err != nil {
		return err
	}

	if isReleaseRunningNow(ctx) {
		return &PreconditionError{Reason: errReleaseRunning.Error(), Path: MarkerFilename}
	}

	if err = createMarker(); err != nil {
		return &PreconditionError{Reason: "cannot create release marker", Path: MarkerFilename}
	}

	// The marker must disappear on every exit path, including interrupts
	// that unwind through context cancellation.
	defer removeMarker()

	if err = w.run(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release recorded", "version", w.releaseVersion, "manifest", w.cfg.ManifestPath)

	return nil
}

// newWorkflow resolves configuration and validates inputs that must fail
// fast, before any side effect.
func newWorkflow(opts *Options) (*workflow, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(cfg, opts)

	policyValue := opts.Policy
	if policyValue == "" {
		policyValue = string(manifest.PolicyUpdateLatest)
	}

	policy, err := manifest.ParsePolicy(policyValue)
	if err != nil {
		return nil, &ManifestError{Op: "policy", Err: err}
	}

	releaseVersion := opts.Version
	if releaseVersion == "" {
		releaseVersion = appversion.Short()
	}

	if _, err = version.NewVersion(releaseVersion); err != nil {
		return nil, &PreconditionError{Reason: "malformed release version", Path: releaseVersion}
	}

	return &workflow{
		opts:           opts,
		cfg:            cfg,
		policy:         policy,
		runner:         resolveRunner(opts.Runner),
		releaseVersion: releaseVersion,
	}, nil
}

// applyOverrides merges non-empty command-line values over file settings.
func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.OutputPath != "" {
		cfg.OutputPath = opts.OutputPath
	}

	if opts.SigningKeyPath != "" {
		cfg.SigningKeyPath = opts.SigningKeyPath
	}

	if opts.ManifestPath != "" {
		cfg.ManifestPath = opts.ManifestPath
	}
}

// run drives the pipeline stages in order, halting on the first failure.
func (w *workflow) run(ctx context.Context) error {
	// Read and check the manifest before any build side effect is spent,
	// so a bad manifest never wastes a build.
	doc, err := w.loadManifest(ctx)
	if err != nil {
		return err
	}

	if err = w.checkPreconditions(ctx); err != nil {
		return err
	}

	if err = w.prepareDependencies(ctx); err != nil {
		return err
	}

	if err = w.buildArtifact(ctx); err != nil {
		return err
	}

	fp, err := fingerprint.File(w.cfg.OutputPath)
	if err != nil {
		return &PostconditionError{Path: w.cfg.OutputPath, Err: err}
	}

	logger.InfoKV(ctx, "Artifact fingerprinted",
		"sha256", fp.SHA256, "sha1", fp.SHA1, "size_bytes", fp.Size)

	notes := w.extractChangelog(ctx, doc)

	return w.updateManifest(ctx, doc, fp, notes)
}

// loadManifest reads the manifest and validates it against the policy.
func (w *workflow) loadManifest(ctx context.Context) (manifest.Document, error) {
	doc, err := manifest.Load(w.cfg.ManifestPath)
	if err != nil {
		// A missing manifest is a valid starting point for the add policy.
		if w.policy == manifest.PolicyAdd && errors.Is(err, os.ErrNotExist) {
			logger.InfoKV(ctx, "Manifest not found, starting a new one", "path", w.cfg.ManifestPath)
			return manifest.Document{}, nil
		}

		return nil, &ManifestError{Op: "read", Err: err}
	}

	if err = doc.Validate(); err != nil {
		return nil, &ManifestError{Op: "validate", Err: err}
	}

	if w.policy == manifest.PolicyUpdateLatest {
		if _, err = doc.LatestIndex(); err != nil {
			return nil, &ManifestError{Op: "update-latest", Err: err}
		}
	}

	return doc, nil
}

// prepareDependencies runs the dependency stage unless opted out.
func (w *workflow) prepareDependencies(ctx context.Context) error {
	if w.opts.SkipDeps {
		logger.Info(ctx, "Skipping dependency reinstall")
		return nil
	}

	preparer := &deps.Preparer{
		Runner:    w.runner,
		Command:   w.cfg.DepsCommand,
		VendorDir: w.cfg.VendorDir,
	}

	if err := preparer.Prepare(ctx, w.cfg.SourceRoot); err != nil {
		return &SubprocessError{Tool: w.cfg.DepsCommand, Err: err}
	}

	return nil
}

// buildArtifact runs the packaging stage and classifies its failures.
func (w *workflow) buildArtifact(ctx context.Context) error {
	b := &builder.Builder{
		Runner:         w.runner,
		Command:        w.cfg.PackagerCommand,
		BaseConfigPath: w.cfg.PackagerBaseConfig,
	}

	err := b.Build(ctx, builder.Request{
		SourceRoot:     w.cfg.SourceRoot,
		OutputPath:     w.cfg.OutputPath,
		SigningKeyPath: w.cfg.SigningKeyPath,
		AllowOverwrite: w.opts.AllowOverwrite,
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, builder.ErrArtifactMissing):
		return &PostconditionError{Path: w.cfg.OutputPath, Err: err}
	case errors.Is(err, builder.ErrOutputExists):
		return &PreconditionError{Reason: "artifact already exists, pass --yes to overwrite", Path: w.cfg.OutputPath}
	default:
		return &SubprocessError{Tool: w.cfg.PackagerCommand, Err: err}
	}
}

// extractChangelog queries history since the previous published version.
// Best-effort: failures produce empty text.
func (w *workflow) extractChangelog(ctx context.Context, doc manifest.Document) string {
	if len(doc) == 0 {
		return ""
	}

	previous, err := doc.LatestVersion()
	if err != nil {
		return ""
	}

	extractor := &changelog.Extractor{
		Runner:  w.runner,
		Command: w.cfg.VCSCommand,
		Dir:     w.cfg.SourceRoot,
	}

	return extractor.Between(ctx, "v"+previous, "HEAD")
}

// updateManifest records the release and persists the document.
func (w *workflow) updateManifest(ctx context.Context, doc manifest.Document, fp fingerprint.Fingerprint, notes string) error {
	updated, i, err := manifest.Update(doc, w.policy, manifest.Release{
		Version:    w.releaseVersion,
		SHA1:       fp.SHA1,
		SHA256:     fp.SHA256,
		Name:       filepath.Base(w.cfg.OutputPath),
		RuntimeMin: w.cfg.RuntimeMin,
		Changelog:  notes,
	})
	if err != nil {
		return &ManifestError{Op: "update", Err: err}
	}

	if w.opts.DryRun {
		logger.InfoKV(ctx, "Dry run, manifest not written",
			"path", w.cfg.ManifestPath, "entry", updated[i].Version)

		return nil
	}

	if err = updated.Save(w.cfg.ManifestPath); err != nil {
		return &ManifestError{Op: "write", Err: err}
	}

	return nil
}
