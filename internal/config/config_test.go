package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/config/loader"
	"github.com/dshills/vimcore/internal/config/watcher"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Editor.ShiftWidth)
	assert.True(t, cfg.Editor.ExpandTab)
	assert.True(t, cfg.Editor.WrapScan)
	assert.Equal(t, ClipboardNone, cfg.Editor.Clipboard)
	assert.Equal(t, 1000, cfg.Editor.HistorySize)
	assert.Equal(t, StartNormal, cfg.Editor.StartMode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Plugins.TimeoutDuration())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"shiftwidth", func(c *Config) { c.Editor.ShiftWidth = 0 }},
		{"clipboard", func(c *Config) { c.Editor.Clipboard = "system" }},
		{"history", func(c *Config) { c.Editor.HistorySize = -1 }},
		{"start mode", func(c *Config) { c.Editor.StartMode = "visual" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"timeout", func(c *Config) { c.Plugins.Timeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidValue)
		})
	}

	cfg := Default()
	cfg.Editor.ShiftWidth = 0
	cfg.Editor.StartMode = "x"
	err := cfg.Validate()
	assert.Contains(t, err.Error(), "shiftwidth")
	assert.Contains(t, err.Error(), "start_mode")
}

func TestLoadFrom_Layers(t *testing.T) {
	fsys := memFS{
		"/base.toml": `
[editor]
shiftwidth = 2
clipboard = "unnamed"

[logging]
level = "debug"
`,
		"/override.yaml": `
editor:
  shiftwidth: 8
  start_mode: insert
plugins:
  timeout: 250ms
`,
	}

	t.Setenv("VIMCORE_EDITOR_WRAPSCAN", "false")
	t.Setenv("VIMCORE_LOG_FILE", "/tmp/vimcore.log")

	cfg, err := LoadFrom(fsys, loader.NewEnvLoader(loader.EnvPrefix), "/base.toml", "/missing.toml", "/override.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Editor.ShiftWidth)
	assert.Equal(t, ClipboardUnnamed, cfg.Editor.Clipboard)
	assert.Equal(t, StartInsert, cfg.Editor.StartMode)
	assert.False(t, cfg.Editor.WrapScan)
	assert.True(t, cfg.Editor.ExpandTab, "untouched defaults survive")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/vimcore.log", cfg.Logging.File)
	assert.Equal(t, 250*time.Millisecond, cfg.Plugins.TimeoutDuration())
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files memFS
		path  string
		want  error
	}{
		{"unknown key", memFS{"/c.toml": "[editor]\ntabsize = 2\n"}, "/c.toml", ErrUnknownSetting},
		{"wrong type", memFS{"/c.toml": "[editor]\nshiftwidth = \"wide\"\n"}, "/c.toml", ErrInvalidValue},
		{"invalid value", memFS{"/c.yaml": "editor:\n  clipboard: system\n"}, "/c.yaml", ErrInvalidValue},
		{"format", memFS{"/c.json": "{}"}, "/c.json", loader.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.files, nil, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadFrom(memFS{"/c.toml": "[editor"}, nil, "/c.toml")
	var perr *loader.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoadFrom_EnvTypeError(t *testing.T) {
	t.Setenv("VIMCORE_EDITOR_HISTORY_SIZE", "lots")
	_, err := LoadFrom(memFS{}, loader.NewEnvLoader(loader.EnvPrefix))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Editor.Clipboard = ClipboardUnnamedPlus

	data, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "history_size = 1000")

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, *cfg, back)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/u")
	paths := DefaultPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, "config.toml", filepath.Base(paths[0]))
	assert.Equal(t, "config.yaml", filepath.Base(paths[1]))
	assert.Equal(t, filepath.Dir(paths[0]), filepath.Dir(paths[1]))
}

func TestWatch_Reloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 2\n"), 0o644))

	var shiftWidth atomic.Int64
	w, err := Watch([]string{path}, func(cfg *Config, err error) {
		if err == nil {
			shiftWidth.Store(int64(cfg.Editor.ShiftWidth))
		}
	}, watcher.WithDebounce(0))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 6\n"), 0o644))

	require.Eventually(t, func() bool { return shiftWidth.Load() == 6 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch([]string{filepath.Join(t.TempDir(), "nope", "config.toml")}, func(*Config, error) {})
	assert.Error(t, err)
}
