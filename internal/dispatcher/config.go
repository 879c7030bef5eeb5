package dispatcher

import "github.com/dshills/vimcore/internal/dispatcher/execctx"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps command execution in panic recovery.
	RecoverFromPanic bool

	// MaxRepeatCount limits the count a command may run with.
	// Zero means no limit.
	MaxRepeatCount int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		MaxRepeatCount:   10000,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMaxRepeatCount returns a copy of the config with the max repeat count set.
func (c Config) WithMaxRepeatCount(max int) Config {
	c.MaxRepeatCount = max
	return c
}

// Options are the editor options that change command behavior.
type Options struct {
	// ShiftWidth is the indent width for > and <.
	ShiftWidth int

	// ExpandTab indents with spaces instead of tabs.
	ExpandTab bool

	// WrapScan lets searches continue past the end of the document.
	WrapScan bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{ShiftWidth: 4, ExpandTab: true, WrapScan: true}
}

func (o Options) exec() execctx.Options {
	sw := o.ShiftWidth
	if sw <= 0 {
		sw = execctx.DefaultOptions().ShiftWidth
	}
	return execctx.Options{ShiftWidth: sw, ExpandTab: o.ExpandTab}
}
