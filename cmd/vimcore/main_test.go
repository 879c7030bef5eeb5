package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// isolatedConfig points the command at a config file that does not exist.
func isolatedConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestRunCmd_Text(t *testing.T) {
	out, _, err := execute(t, "run", "--config", isolatedConfig(t), "--text", "alpha beta gamma", "--keys", "dw")
	require.NoError(t, err)

	assert.Contains(t, out, "buffer (1 lines):")
	assert.Contains(t, out, "   1  beta gamma\n")
	assert.Contains(t, out, "cursor: 1,1\n")
	assert.Contains(t, out, "mode: normal\n")
	assert.Contains(t, out, `""  char  "alpha "`)
}

func TestRunCmd_InsertAndPending(t *testing.T) {
	out, _, err := execute(t, "run", "-c", isolatedConfig(t), "-t", "x", "-k", "Ahello<Esc>2d")
	require.NoError(t, err)

	assert.Contains(t, out, "   1  xhello\n")
	assert.Contains(t, out, "pending: 2d\n")
}

func TestRunCmd_FileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	out, _, err := execute(t, "run", "-c", isolatedConfig(t), "--file", path, "--keys", "dd", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "   1  two\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
}

func TestRunCmd_ReportsKeyErrors(t *testing.T) {
	_, stderr, err := execute(t, "run", "-c", isolatedConfig(t), "-t", "x", "-k", ":nosuchcommand<CR>")
	require.NoError(t, err)
	assert.Contains(t, stderr, "<CR>: not an editor command")
}

func TestRunCmd_Flags(t *testing.T) {
	_, _, err := execute(t, "run", "-c", isolatedConfig(t), "-t", "x")
	assert.Error(t, err)

	_, _, err = execute(t, "run", "-c", isolatedConfig(t), "-t", "x", "-f", "y", "-k", "x")
	assert.Error(t, err)
}

func TestKeysCmd(t *testing.T) {
	out, _, err := execute(t, "keys", "3dw")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "3    pending"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "3d   pending"), lines[1])
	assert.Contains(t, lines[2], "complete  operator count=3")
}

func TestKeysCmd_SplitsCommands(t *testing.T) {
	out, _, err := execute(t, "keys", "d<F5>x")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "pending")
	assert.Contains(t, lines[1], "invalid")
	assert.True(t, strings.HasPrefix(lines[2], "x "), lines[2])
	assert.Contains(t, lines[2], "complete")
}

func TestKeysCmd_Args(t *testing.T) {
	_, _, err := execute(t, "keys")
	assert.Error(t, err)

	_, _, err = execute(t, "keys", "")
	assert.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 2\n"), 0o644))

	out, _, err := execute(t, "config", "--config", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "shiftwidth = 2")
	assert.Regexp(t, `level = ['"]debug['"]`, out)
}

func TestConfigCmd_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 'wide'\n"), 0o644))

	_, _, err := execute(t, "config", "--config", path)
	assert.Error(t, err)
}
