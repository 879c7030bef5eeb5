package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/vimcore/internal/config/loader"
)

// Clipboard modes for EditorConfig.Clipboard.
const (
	ClipboardNone        = ""
	ClipboardUnnamed     = "unnamed"
	ClipboardUnnamedPlus = "unnamedplus"
)

// Start modes for EditorConfig.StartMode.
const (
	StartNormal = "normal"
	StartInsert = "insert"
)

// Config is the complete vimcore configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Plugins PluginsConfig `toml:"plugins" yaml:"plugins"`
}

// EditorConfig holds the editing options.
type EditorConfig struct {
	// ShiftWidth is the number of columns > and < shift by.
	ShiftWidth int `toml:"shiftwidth" yaml:"shiftwidth"`
	// ExpandTab indents with spaces instead of tabs.
	ExpandTab bool `toml:"expandtab" yaml:"expandtab"`
	// Clipboard makes the unnamed register follow the system clipboard.
	Clipboard string `toml:"clipboard" yaml:"clipboard"`
	// WrapScan lets searches wrap around the end of the buffer.
	WrapScan bool `toml:"wrapscan" yaml:"wrapscan"`
	// HistorySize is the number of undo steps kept.
	HistorySize int `toml:"history_size" yaml:"history_size"`
	// StartMode is the mode a new document opens in.
	StartMode string `toml:"start_mode" yaml:"start_mode"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File receives log output. Empty disables logging.
	File string `toml:"file" yaml:"file"`
}

// PluginsConfig controls the Lua runtime behind :lua.
type PluginsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Init is a Lua file run when a document opens.
	Init string `toml:"init" yaml:"init"`
	// Timeout bounds each Lua chunk, as a Go duration. Empty means none.
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// TimeoutDuration returns the parsed Timeout, zero when unset or invalid.
func (p PluginsConfig) TimeoutDuration() time.Duration {
	if p.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			ShiftWidth:  4,
			ExpandTab:   true,
			Clipboard:   ClipboardNone,
			WrapScan:    true,
			HistorySize: 1000,
			StartMode:   StartNormal,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Plugins: PluginsConfig{
			Enabled: true,
			Timeout: "5s",
		},
	}
}

// Validate reports every invalid setting. Each error wraps ErrInvalidValue.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...))
	}

	if c.Editor.ShiftWidth < 1 {
		invalid("editor.shiftwidth must be positive, got %d", c.Editor.ShiftWidth)
	}
	switch c.Editor.Clipboard {
	case ClipboardNone, ClipboardUnnamed, ClipboardUnnamedPlus:
	default:
		invalid("editor.clipboard must be %q, %q or empty, got %q", ClipboardUnnamed, ClipboardUnnamedPlus, c.Editor.Clipboard)
	}
	if c.Editor.HistorySize < 0 {
		invalid("editor.history_size must not be negative, got %d", c.Editor.HistorySize)
	}
	switch c.Editor.StartMode {
	case StartNormal, StartInsert:
	default:
		invalid("editor.start_mode must be %q or %q, got %q", StartNormal, StartInsert, c.Editor.StartMode)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("logging.level %q is not a level", c.Logging.Level)
	}

	if c.Plugins.Timeout != "" {
		if d, err := time.ParseDuration(c.Plugins.Timeout); err != nil || d < 0 {
			invalid("plugins.timeout %q is not a duration", c.Plugins.Timeout)
		}
	}

	return errors.Join(errs...)
}

// TOML encodes the configuration.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

// DefaultPaths returns the user config files, whether or not they exist.
func DefaultPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(dir, "vimcore")
	return []string{
		filepath.Join(base, "config.toml"),
		filepath.Join(base, "config.yaml"),
	}
}

// Load builds the configuration from defaults, the given files and the
// environment. Missing files are skipped.
func Load(paths ...string) (*Config, error) {
	return LoadFrom(loader.DefaultFS(), loader.NewEnvLoader(loader.EnvPrefix), paths...)
}

// LoadFrom is Load with an explicit file system and environment loader.
// A nil env skips environment overrides.
func LoadFrom(fsys loader.FileSystem, env loader.Loader, paths ...string) (*Config, error) {
	merged := make(map[string]any)
	for _, path := range paths {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := decode(cfg, merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies a merged settings map on top of cfg. The map goes back
// through the TOML codec so YAML and environment values share one set of
// field names and type rules.
func decode(cfg *Config, data map[string]any) error {
	if len(data) == 0 {
		return nil
	}

	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var missing *toml.StrictMissingError
		if errors.As(err, &missing) {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.TrimSpace(missing.String()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}
