package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
}

// String renders the invocation for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands on behalf of pipeline stages.
type Runner interface {
	// Run executes the command, forwarding its stdout and stderr to the
	// calling process. A nonzero exit status is an error.
	Run(ctx context.Context, command Command) error
	// Output executes the command and returns its captured stdout.
	Output(ctx context.Context, command Command) (string, error)
	// LookPath resolves the executable on the host PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by real subprocesses.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, wiring the subprocess output straight through.
func (r *ExecRunner) Run(ctx context.Context, command Command) error {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", command.String(), err)
	}

	return nil
}

// Output executes the command and returns its stdout as a string.
// The subprocess stderr is forwarded to the calling process.
func (r *ExecRunner) Output(ctx context.Context, command Command) (string, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", command.String(), err)
	}

	return string(out), nil
}

// LookPath resolves the executable on the host PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
