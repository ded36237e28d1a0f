package clamav

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
)

// Result holds the captured output of one engine invocation.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// ExitCode is the exit code returned by the process, or -1 when the
	// process never ran.
	ExitCode int
}

// Runner executes a single external command and captures its output.
// Production code uses CommandRunner; tests substitute mock implementations.
type Runner interface {
	// Run executes name with args, honoring ctx for cancellation. A non-zero
	// exit is not an error: the code is reported through the Result. The
	// returned error is reserved for launch failures and context expiry.
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// CommandRunner is the os/exec-backed Runner implementation.
type CommandRunner struct{}

// NewCommandRunner creates a Runner that executes real subprocesses.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{}
}

// Run executes the command, capturing stdout and stderr separately.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := osexec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command %s canceled: %w", name, ctxErr)
		}
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			// Normal completion with a non-zero code.
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return result, nil
}
