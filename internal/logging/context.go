package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey struct{}

// WithLogger attaches logger to ctx. Engines and the pipeline read it back
// with FromContext.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or Default when there is
// none.
func FromContext(ctx context.Context) *log.Logger {
	if logger, _ := ctx.Value(ctxKey{}).(*log.Logger); logger != nil {
		return logger
	}
	return Default()
}

// WithFields returns ctx carrying a child of its logger with keyvals
// attached to every entry.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}
