// Package gitcmd runs fixed git argument vectors against a working directory
// and exposes the typed queries and mutations the deploy sequence needs.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result carries the exit code and captured output of one git invocation.
// A non-zero exit is a Result, not an error; errors are reserved for failures
// to run git at all (missing binary, canceled context, timeout).
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes git with a fixed argument vector.
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// ExecRunner runs the real git binary.
type ExecRunner struct {
	// Dir is the working directory git runs in. Empty means the process cwd.
	Dir string

	// Timeout bounds each invocation when the caller's context carries no
	// deadline of its own. Zero means no per-call bound.
	Timeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("gitcmd: ctx is nil")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		return Result{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// CommandError reports a git invocation that ran but exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s exited %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
