package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single formatter run.
const DefaultTimeout = 30 * time.Second

// waitDelay is how long a killed process gets to release its pipes.
const waitDelay = 2 * time.Second

// Command is one resolved process invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
}

// String renders the command for logs.
func (c Command) String() string {
	var buf bytes.Buffer
	buf.WriteString(c.Path)
	for _, a := range c.Args {
		buf.WriteByte(' ')
		buf.WriteString(a)
	}
	return buf.String()
}

// Invocation is the observable outcome of running a Command.
type Invocation struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Failed reports whether the tool signalled a problem.
func (i Invocation) Failed() bool {
	return i.ExitCode != 0 || i.Stderr != ""
}

// Invoker runs a command to completion.
// An error means the process could not be started (wrap ErrUnavailable)
// or did not finish in time (wrap ErrTimeout). A nonzero exit status is
// reported through Invocation.ExitCode, not as an error.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) (Invocation, error)
}

// ExecInvoker runs commands with os/exec under a timeout.
type ExecInvoker struct {
	// Timeout bounds each run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Invoke implements Invoker.
func (e ExecInvoker) Invoke(ctx context.Context, cmd Command) (Invocation, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	proc.Dir = cmd.Dir
	proc.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	err := proc.Run()

	inv := Invocation{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return inv, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		inv.ExitCode = -1
		return inv, fmt.Errorf("%w: %s after %s", ErrTimeout, cmd.Path, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}

	return inv, fmt.Errorf("%w: start %s: %w", ErrUnavailable, cmd.Path, err)
}
