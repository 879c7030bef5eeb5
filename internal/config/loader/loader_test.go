package loader

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestForPath(t *testing.T) {
	memfs := NewMemFS()

	tests := []struct {
		path string
		want any
	}{
		{"/c.toml", &TOMLLoader{}},
		{"/c.TOML", &TOMLLoader{}},
		{"/c.yaml", &YAMLLoader{}},
		{"/c.yml", &YAMLLoader{}},
	}
	for _, tt := range tests {
		l, err := ForPath(memfs, tt.path)
		require.NoError(t, err, tt.path)
		assert.IsType(t, tt.want, l, tt.path)
	}

	_, err := ForPath(memfs, "/c.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[editor]
shiftwidth = 2
expandtab = false
clipboard = "unnamedplus"

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	require.NoError(t, err)

	editor, ok := config["editor"].(map[string]any)
	require.True(t, ok, "editor should be a map")
	assert.Equal(t, int64(2), editor["shiftwidth"])
	assert.Equal(t, false, editor["expandtab"])
	assert.Equal(t, "unnamedplus", editor["clipboard"])

	logging, ok := config["logging"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "debug", logging["level"])
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[editor\nshiftwidth = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/invalid.toml", perr.Path)
	assert.Positive(t, perr.Line)
	assert.Contains(t, perr.Error(), "/invalid.toml at line")
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&TOMLLoader{}).LoadFromReader(strings.NewReader("history_size = 50\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(50), config["history_size"])
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
editor:
  shiftwidth: 8
  wrapscan: false
  start_mode: insert
plugins:
  enabled: true
  timeout: 2s
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	require.NoError(t, err)

	editor, ok := config["editor"].(map[string]any)
	require.True(t, ok, "editor should be a map")
	assert.Equal(t, 8, editor["shiftwidth"])
	assert.Equal(t, false, editor["wrapscan"])
	assert.Equal(t, "insert", editor["start_mode"])

	plugins, ok := config["plugins"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, plugins["enabled"])
	assert.Equal(t, "2s", plugins["timeout"])
}

func TestYAMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewYAMLLoaderWithFS(NewMemFS(), "/missing.yml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "editor: shiftwidth: 2\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.yaml", perr.Path)
	assert.Equal(t, 1, perr.Line)
}

func TestYAMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&YAMLLoader{}).LoadFromReader(strings.NewReader("clipboard: unnamed\n"))
	require.NoError(t, err)
	assert.Equal(t, "unnamed", config["clipboard"])
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a", Line: 2, Column: 3, Message: "m"}, "parse error in a at line 2, column 3: m"},
		{ParseError{Path: "a", Line: 2, Message: "m"}, "parse error in a at line 2: m"},
		{ParseError{Path: "a", Message: "m"}, "parse error in a: m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"shiftwidth": 4, "expandtab": true},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"editor":  map[string]any{"shiftwidth": 2},
		"logging": "flat",
		"plugins": map[string]any{"enabled": true},
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"editor":  map[string]any{"shiftwidth": 2, "expandtab": true},
		"logging": "flat",
		"plugins": map[string]any{"enabled": true},
	}, got)

	assert.Equal(t, map[string]any{}, DeepMerge(nil, nil))
}
