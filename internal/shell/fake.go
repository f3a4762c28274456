package shell

import (
	"context"
	"sync"
)

// FakeRunner records invocations and plays back scripted results.
// The zero value succeeds on every call and resolves every executable.
type FakeRunner struct {
	// mu protects Calls against concurrent stages in tests.
	mu sync.Mutex
	// Calls are the commands received, in order.
	Calls []Command
	// RunErrs maps executable name to the error Run should return.
	RunErrs map[string]error
	// Outputs maps executable name to the stdout Output should return.
	Outputs map[string]string
	// OutputErrs maps executable name to the error Output should return.
	OutputErrs map[string]error
	// MissingTools are executable names LookPath should fail to resolve.
	MissingTools map[string]bool
	// OnRun, when set, is called before Run returns, letting a test
	// simulate subprocess side effects such as writing the artifact.
	OnRun func(command Command) error
}

// Run records the call and returns the scripted error, if any.
func (r *FakeRunner) Run(_ context.Context, command Command) error {
	r.record(command)

	if r.OnRun != nil {
		if err := r.OnRun(command); err != nil {
			return err
		}
	}

	return r.RunErrs[command.Name]
}

// Output records the call and returns scripted stdout or error.
func (r *FakeRunner) Output(_ context.Context, command Command) (string, error) {
	r.record(command)

	if err := r.OutputErrs[command.Name]; err != nil {
		return "", err
	}

	return r.Outputs[command.Name], nil
}

// LookPath resolves every name except those marked missing.
func (r *FakeRunner) LookPath(name string) (string, error) {
	if r.MissingTools[name] {
		return "", &missingToolError{name: name}
	}

	return "/usr/bin/" + name, nil
}

// CommandsFor returns the recorded calls matching the executable name.
func (r *FakeRunner) CommandsFor(name string) []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []Command

	for _, c := range r.Calls {
		if c.Name == name {
			matched = append(matched, c)
		}
	}

	return matched
}

func (r *FakeRunner) record(command Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, command)
}

type missingToolError struct {
	name string
}

func (e *missingToolError) Error() string {
	return e.name + ": executable file not found in $PATH"
}
