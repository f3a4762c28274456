package release

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/shipkit/relman/internal/logger"
)

const (
	// MarkerFilename marks that a release is in progress to avoid parallel runs.
	MarkerFilename = "relman-release-marker.bin"

	// markerLifetime is the period after which a leftover marker is considered stale.
	markerLifetime = 30 * time.Minute

	// lockedProcessName is the executable a stale marker cleanup terminates.
	lockedProcessName = "relman"
)

// isReleaseRunningNow checks presence of the marker file and attempts
// recovery if it looks stale.
func isReleaseRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The release marker is too old, attempting cleanup")

		if err = terminateProcessByName(lockedProcessName); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read release marker: %v", err)

	return false
}

// createMarker writes the release marker file.
func createMarker() error {
	f, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return f.Close()
}

// removeMarker deletes the release marker, ignoring a missing file.
func removeMarker() {
	_ = os.Remove(MarkerFilename)
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
