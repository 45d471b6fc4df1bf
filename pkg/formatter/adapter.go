package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/fsutil"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrUnavailable means the tool could not be run at all: it is
	// disabled, missing, failed to start, or its input could not be staged.
	ErrUnavailable = errors.New("formatter unavailable")

	// ErrTimeout means the tool was killed after exceeding its timeout.
	ErrTimeout = errors.New("formatter timed out")

	// ErrReadBack means the tool ran but its output could not be read.
	ErrReadBack = errors.New("formatter output unreadable")

	// ErrUnknownTool means no tool with the requested name is configured.
	ErrUnknownTool = errors.New("unknown formatter")
)

// Request asks for one formatting run.
type Request struct {
	// Tool is the tool name from the Set.
	Tool string

	// Path is the original file path. It decides the throwaway file's
	// directory and extension.
	Path string

	// Content is the text to format.
	Content []byte

	// Lang expands the {lang} placeholder.
	Lang string
}

// Result is the outcome of a formatting run that produced readable output.
type Result struct {
	Tool    string
	Content []byte

	// Soft is set when the tool signalled a problem (nonzero exit, stderr
	// output, timeout, or empty output). Content is still whatever was
	// read back; callers decide whether to trust it.
	Soft bool

	// Warning describes the soft failure.
	Warning string

	Invocation Invocation
}

// Adapter stages content, runs a tool, and reads the result back.
// It holds no per-file state and is safe for concurrent use.
type Adapter struct {
	tools    Set
	resolver *Resolver
	invoker  Invoker
	disabled bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTools replaces the tool table.
func WithTools(tools Set) Option {
	return func(a *Adapter) { a.tools = tools }
}

// WithInvoker replaces the process runner.
func WithInvoker(invoker Invoker) Option {
	return func(a *Adapter) { a.invoker = invoker }
}

// WithResolver replaces the executable resolver.
func WithResolver(resolver *Resolver) Option {
	return func(a *Adapter) { a.resolver = resolver }
}

// WithDisabled turns every tool off.
func WithDisabled(disabled bool) Option {
	return func(a *Adapter) { a.disabled = disabled }
}

// New creates an Adapter with the default tools, PATH resolution, and an
// ExecInvoker using DefaultTimeout.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		tools:    DefaultTools(),
		resolver: NewResolver(),
		invoker:  ExecInvoker{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tools returns the configured tool table.
func (a *Adapter) Tools() Set {
	return a.tools
}

// Locate reports where a tool's executable lives.
func (a *Adapter) Locate(name string) (string, error) {
	tool, ok := a.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if a.disabled || tool.Disabled {
		return "", fmt.Errorf("%w: %s disabled", ErrUnavailable, name)
	}
	return a.resolver.Resolve(tool.Command)
}

// Format runs the requested tool over req.Content.
//
// Errors wrapping ErrUnavailable mean nothing ran and the caller should
// use its own fallback. Errors wrapping ErrReadBack mean the tool ran but
// left nothing usable; that is a hard failure for the file. Every other
// problem comes back as a Result with Soft set.
func (a *Adapter) Format(ctx context.Context, req Request) (*Result, error) {
	logger := logging.FromContext(ctx).With(logging.FieldFormatter, req.Tool)

	tool, ok := a.tools[req.Tool]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrUnavailable, ErrUnknownTool, req.Tool)
	}

	path, err := a.Locate(req.Tool)
	if err != nil {
		return nil, err
	}

	tmp, err := fsutil.WriteThrowaway(filepath.Dir(req.Path), filepath.Ext(req.Path), req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		if rmErr := tmp.Remove(); rmErr != nil {
			logger.Warn("could not remove throwaway file",
				logging.FieldPath, tmp.Path, logging.FieldError, rmErr)
		}
	}()

	cmd := Command{
		Path: path,
		Args: tool.Argv(tmp.Path, req.Lang),
		Dir:  filepath.Dir(req.Path),
	}

	logger.Debug("running formatter", logging.FieldCommand, cmd.String())

	inv, invokeErr := a.invoker.Invoke(ctx, cmd)
	if invokeErr != nil && errors.Is(invokeErr, ErrUnavailable) {
		return nil, invokeErr
	}

	content, err := tmp.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadBack, req.Tool, err)
	}

	result := &Result{
		Tool:       req.Tool,
		Content:    content,
		Invocation: inv,
	}

	switch {
	case invokeErr != nil:
		result.Soft = true
		result.Warning = invokeErr.Error()
	case inv.Failed():
		result.Soft = true
		result.Warning = describeFailure(req.Tool, inv)
	case len(bytes.TrimSpace(content)) == 0 && len(bytes.TrimSpace(req.Content)) > 0:
		result.Soft = true
		result.Warning = req.Tool + " produced empty output"
	}

	if result.Soft {
		logger.Warn("formatter reported a problem",
			logging.FieldPath, req.Path,
			logging.FieldExitCode, inv.ExitCode,
			logging.FieldWarning, result.Warning)
	} else {
		logger.Debug("formatter finished", logging.FieldPath, req.Path, logging.FieldDuration, inv.Duration)
	}

	return result, nil
}

func describeFailure(tool string, inv Invocation) string {
	msg := strings.TrimSpace(inv.Stderr)
	if first, _, found := strings.Cut(msg, "\n"); found {
		msg = first
	}
	if inv.ExitCode != 0 {
		if msg == "" {
			return fmt.Sprintf("%s exited with status %d", tool, inv.ExitCode)
		}
		return fmt.Sprintf("%s exited with status %d: %s", tool, inv.ExitCode, msg)
	}
	return fmt.Sprintf("%s wrote to stderr: %s", tool, msg)
}
