package changelog

import (
	"context"
	"regexp"
	"strings"

	"github.com/shipkit/relman/internal/logger"
	"github.com/shipkit/relman/internal/shell"
)

// excludePattern drops release-housekeeping commits from changelog text:
// release commits themselves and anything explicitly marked to be skipped.
var excludePattern = regexp.MustCompile(`(?i)^\* (release v|\[skip changelog\])`)

// Extractor queries version-control history for changelog text.
type Extractor struct {
	// Runner executes the version-control tool.
	Runner shell.Runner
	// Command is the version-control executable, usually "git".
	Command string
	// Dir is the repository root to query in.
	Dir string
}

// Between returns one "* <subject>" bullet per non-merge commit strictly
// after fromTag up to and including toRef. Any query failure degrades to
// empty text: changelog generation is best-effort, the release is not.
func (e *Extractor) Between(ctx context.Context, fromTag, toRef string) string {
	out, err := e.Runner.Output(ctx, shell.Command{
		Name: e.Command,
		Args: []string{
			"log",
			"--pretty=tformat:* %s",
			"--no-merges",
			fromTag + ".." + toRef,
		},
		Dir: e.Dir,
	})
	if err != nil {
		logger.WarnKV(ctx, "Changelog query failed, continuing without changelog",
			"from", fromTag, "to", toRef, "error", err)

		return ""
	}

	return filter(out)
}

// filter removes excluded bullets and trims surrounding whitespace.
func filter(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if excludePattern.MatchString(line) {
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
