// Package repair holds the per-language repair engines.
//
// An engine takes the text of one file, applies heuristic structural
// repairs (missing terminators, missing or unbalanced braces, missing
// block colons, declaration keyword upgrades), hands the repaired text to
// the language's external formatter, and records the net change in a
// fix.Ledger. Engines never touch the filesystem; the Pipeline does that.
package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/fix"
	"github.com/yaklabco/gojanitor/pkg/formatter"
)

// ErrNoEngine is returned when a path has no registered engine.
var ErrNoEngine = errors.New("no repair engine for file")

// Source is the input to an engine.
type Source struct {
	// Path decides the dialect of some engines and where the formatter's
	// throwaway file is staged. It is never read.
	Path string

	Content []byte
}

// Engine repairs one language family.
type Engine interface {
	// Language identifies the family the engine serves.
	Language() Language

	// Analyze repairs src and returns the resulting edits. It does not
	// modify src. An error means the file must be left untouched.
	Analyze(ctx context.Context, src Source) (*Analysis, error)
}

// Formatter runs an external canonical formatter.
// *formatter.Adapter satisfies it.
type Formatter interface {
	Format(ctx context.Context, req formatter.Request) (*formatter.Result, error)
}

// Outcome records which formatting path produced the final text.
type Outcome string

// Formatting outcomes.
const (
	// OutcomeFormatted means the external formatter's output was used.
	OutcomeFormatted Outcome = "formatted"

	// OutcomeFallback means the built-in fallback formatter was used.
	OutcomeFallback Outcome = "fallback"

	// OutcomeRepaired means the repaired text was kept without formatting
	// because the external formatter reported a problem.
	OutcomeRepaired Outcome = "repaired"
)

// Analysis is the result of running an engine over one file.
type Analysis struct {
	Path     string
	Language Language

	// Dialect is the detected embedded dialect for C-family files.
	Dialect string

	// Ledger holds the edits against the original content. Engines that
	// replace the buffer record a single whole-buffer edit, and only when
	// the output differs from the input.
	Ledger *fix.Ledger

	// Rewrites counts sub-line rewrites applied before the formatter
	// handoff. They are already folded into the ledger's edit.
	Rewrites int

	// Warnings are non-fatal problems the engine noticed.
	Warnings []string

	// Formatter is the external tool the engine asked for.
	Formatter string

	Outcome Outcome

	// ParseFallback is set when the syntax tree could not be built and
	// the regex path ran instead.
	ParseFallback bool
}

func newAnalysis(lang Language, src Source) *Analysis {
	return &Analysis{
		Path:     src.Path,
		Language: lang,
		Ledger:   fix.NewLedger(src.Content),
	}
}

// Apply applies the ledger to the original content.
func (a *Analysis) Apply() ([]byte, error) {
	out, err := a.Ledger.Apply()
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", a.Path, err)
	}
	return out, nil
}

// EditCount is the number of fixes the analysis represents.
func (a *Analysis) EditCount() int {
	return a.Rewrites + a.Ledger.Len()
}

// Changed reports whether applying the analysis alters the file.
func (a *Analysis) Changed() bool {
	return a.Ledger.Len() > 0
}

func (a *Analysis) warn(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

// record stores final as a whole-buffer edit when it differs from the
// original.
func (a *Analysis) record(final string) {
	if final != string(a.Ledger.Original()) {
		a.Ledger.ReplaceAll(final)
	}
}

// softPolicy decides what an engine does when its formatter reports a
// soft failure.
type softPolicy int

const (
	// softFallback runs the built-in fallback formatter.
	softFallback softPolicy = iota

	// softKeepRepaired keeps the repaired, unformatted text.
	softKeepRepaired
)

// handoff sends repaired text to the formatter and picks the final text
// according to the outcome. Only a read-back failure is returned as an
// error.
func handoff(
	ctx context.Context,
	f Formatter,
	an *Analysis,
	req formatter.Request,
	fallback func(string) string,
	policy softPolicy,
) (string, error) {
	repaired := string(req.Content)
	an.Formatter = req.Tool

	logger := logging.FromContext(ctx).With(logging.FieldPath, an.Path, logging.FieldFormatter, req.Tool)

	res, err := f.Format(ctx, req)
	switch {
	case errors.Is(err, formatter.ErrUnavailable):
		logger.Debug("formatter unavailable, using fallback", logging.FieldError, err)
		an.Outcome = OutcomeFallback
		return fallback(repaired), nil

	case err != nil:
		return "", fmt.Errorf("format %s: %w", an.Path, err)

	case res.Soft:
		an.warn("%s", res.Warning)
		if policy == softFallback {
			an.Outcome = OutcomeFallback
			return fallback(repaired), nil
		}
		an.Outcome = OutcomeRepaired
		return repaired, nil

	default:
		an.Outcome = OutcomeFormatted
		return string(res.Content), nil
	}
}

// unavailableFormatter is used when a Registry is built without one.
type unavailableFormatter struct{}

func (unavailableFormatter) Format(context.Context, formatter.Request) (*formatter.Result, error) {
	return nil, fmt.Errorf("%w: no formatter configured", formatter.ErrUnavailable)
}
