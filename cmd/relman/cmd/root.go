package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shipkit/relman/internal/config"
	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/manifest"
	"github.com/shipkit/relman/internal/service/release"
	"github.com/shipkit/relman/internal/version"
)

var (
	// configPath to the workflow settings YAML file.
	configPath string
	// outputPath overrides the artifact output location.
	outputPath string
	// signingKeyPath overrides the signing key handed to the packaging tool.
	signingKeyPath string
	// manifestPath overrides the release manifest location.
	manifestPath string
	// policy picks how the manifest records this release.
	policy string
	// releaseVersion overrides the version being published.
	releaseVersion string
	// skipDeps skips the dependency reinstall stage.
	skipDeps bool
	// allowOverwrite permits replacing an existing artifact.
	allowOverwrite bool
	// dryRun runs the pipeline without writing the manifest.
	dryRun bool
	// logLevel sets logging verbosity.
	logLevel string

	// rootCmd builds the release artifact and records it in the manifest.
	rootCmd = &cobra.Command{
		Use:   "relman",
		Short: "Build a release artifact and record it in the release manifest",
		Long: "Build a self-contained executable of the CLI with the external packaging tool, " +
			"compute its checksums, extract the changelog since the last published version, " +
			"and append the release to the manifest consulted by self-updating installers.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			options := &release.Options{
				ConfigPath:     configPath,
				OutputPath:     outputPath,
				SigningKeyPath: signingKeyPath,
				ManifestPath:   manifestPath,
				Policy:         policy,
				Version:        releaseVersion,
				SkipDeps:       skipDeps,
				AllowOverwrite: allowOverwrite,
				DryRun:         dryRun,
			}

			if err := release.Run(ctx, options); err != nil {
				logger.Error(ctx, err.Error())
				return err
			}

			return nil
		},
	}
)

// Execute runs the relman CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Errors are already logged by RunE; a runtime failure is not a usage problem.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to workflow settings file")
	flags.StringVarP(&outputPath, "output", "o", "", "artifact output path")
	flags.StringVarP(&signingKeyPath, "key", "k", "", "signing key path passed to the packaging tool")
	flags.StringVarP(&manifestPath, "manifest", "m", "", "release manifest path")
	flags.StringVarP(&policy, "policy", "p", string(manifest.PolicyUpdateLatest),
		"manifest update policy: update-latest or add")
	flags.StringVar(&releaseVersion, "release-version", "", "version to publish (default: build version)")
	flags.BoolVar(&skipDeps, "no-deps", false, "skip the dependency reinstall stage")
	flags.BoolVar(&allowOverwrite, "yes", false, "allow overwriting an existing artifact")
	flags.BoolVar(&dryRun, "dry-run", false, "run the pipeline without writing the manifest")
	flags.StringVar(&logLevel, "log-level", "info", "logging level: debug, info, warn, error")
}
