package formatter

import (
	"github.com/yaklabco/gojanitor/pkg/config"
)

// FromConfig builds an Adapter honouring the formatter overrides, the
// global kill switch and the per-run timeout in cfg.
func FromConfig(cfg *config.Config, opts ...Option) *Adapter {
	if cfg == nil {
		return New(opts...)
	}

	overrides := make(map[string]Override, len(cfg.Formatters))
	for name, fc := range cfg.Formatters {
		overrides[name] = Override{
			Command:  fc.Command,
			Args:     fc.Args,
			Disabled: fc.Disabled,
		}
	}

	base := []Option{
		WithTools(DefaultTools().WithOverrides(overrides)),
		WithDisabled(cfg.NoFormatters),
		WithInvoker(ExecInvoker{Timeout: cfg.FormatterTimeout}),
	}
	return New(append(base, opts...)...)
}
