package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getByPath(data map[string]any, path ...string) (any, bool) {
	var cur any = data
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("VIMCORE_EDITOR_SHIFTWIDTH", "2")
	t.Setenv("VIMCORE_EDITOR_HISTORY_SIZE", "50")
	t.Setenv("VIMCORE_EDITOR_EXPANDTAB", "off")
	t.Setenv("VIMCORE_LOG_LEVEL", "debug")
	t.Setenv("VIMCORE_PLUGINS_INIT", "init.lua")
	t.Setenv("VIMCORE_BARE", "x")
	t.Setenv("OTHER_EDITOR_SHIFTWIDTH", "9")

	config, err := NewEnvLoader(EnvPrefix).Load()
	require.NoError(t, err)

	val, ok := getByPath(config, "editor", "shiftwidth")
	require.True(t, ok)
	assert.Equal(t, int64(2), val)

	val, ok = getByPath(config, "editor", "history_size")
	require.True(t, ok)
	assert.Equal(t, int64(50), val)

	val, _ = getByPath(config, "editor", "expandtab")
	assert.Equal(t, false, val)

	val, _ = getByPath(config, "logging", "level")
	assert.Equal(t, "debug", val)

	val, _ = getByPath(config, "plugins", "init")
	assert.Equal(t, "init.lua", val)

	_, ok = getByPath(config, "bare")
	assert.False(t, ok)
}

func TestEnvLoader_Mapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("APP_", nil)
	l.AddMapping("APP_SW", "editor.shiftwidth")
	l.environ = func() []string {
		return []string{"APP_SW=8", "APP_LOGGING_FILE=/tmp/vimcore.log", "malformed"}
	}

	config, err := l.Load()
	require.NoError(t, err)
	val, _ := getByPath(config, "editor", "shiftwidth")
	assert.Equal(t, int64(8), val)
	val, _ = getByPath(config, "logging", "file")
	assert.Equal(t, "/tmp/vimcore.log", val)
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader("VIMCORE_")
	tests := []struct {
		env  string
		want string
	}{
		{"VIMCORE_EDITOR_SHIFTWIDTH", "editor.shiftwidth"},
		{"VIMCORE_EDITOR_START_MODE", "editor.start_mode"},
		{"VIMCORE_LOGGING_FILE", "logging.file"},
		{"VIMCORE_EDITOR", ""},
		{"VIMCORE_EDITOR_", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.envToPath(tt.env), tt.env)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"on", true},
		{"false", false},
		{"NO", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-3", int64(-3)},
		{"1.5", 1.5},
		{"5s", "5s"},
		{"unnamedplus", "unnamedplus"},
		{"/tmp/x.log", "/tmp/x.log"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}

func TestSetByPath(t *testing.T) {
	data := map[string]any{"editor": "scalar"}
	setByPath(data, "editor.shiftwidth", 2)
	setByPath(data, "top", 1)
	assert.Equal(t, map[string]any{
		"editor": map[string]any{"shiftwidth": 2},
		"top":    1,
	}, data)
}
