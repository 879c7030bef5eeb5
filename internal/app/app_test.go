package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/input"
	"github.com/dshills/vimcore/internal/input/key"
)

type fakeClipboard struct {
	mu      sync.Mutex
	content string
}

func (c *fakeClipboard) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, nil
}

func (c *fakeClipboard) Set(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
	return nil
}

func newTestApp(t *testing.T) (*Application, *fakeClipboard) {
	t.Helper()
	clip := &fakeClipboard{}
	app := New(Options{Config: testConfig(), Clipboard: clip})
	t.Cleanup(func() { _ = app.Close() })
	return app, clip
}

// send feeds keys to the application and returns the last result.
func send(t *testing.T, app *Application, keys string) input.Result {
	t.Helper()
	seq, err := key.ParseSequence(keys)
	require.NoError(t, err)
	var res input.Result
	for _, ev := range seq.Events {
		res = app.HandleKey(ev)
	}
	return res
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplication_NoDocument(t *testing.T) {
	app, _ := newTestApp(t)
	res := app.HandleKey(key.Char('x'))
	assert.ErrorIs(t, res.Err, ErrNoActiveDocument)
	assert.Nil(t, app.Active())
	assert.False(t, app.QuitRequested())
}

func TestApplication_OpenDeduplicates(t *testing.T) {
	app, _ := newTestApp(t)
	path := writeFile(t, "a.txt", "a\n")

	first, err := app.Open(path)
	require.NoError(t, err)
	_, err = app.OpenScratch("")
	require.NoError(t, err)

	again, err := app.Open(path)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Same(t, first, app.Active())
	assert.Equal(t, 2, app.Documents().Count())
}

func TestApplication_Write(t *testing.T) {
	app, _ := newTestApp(t)
	path := writeFile(t, "w.txt", "one\n")
	doc, err := app.Open(path)
	require.NoError(t, err)

	send(t, app, "Atwo<Esc>")
	res := send(t, app, ":w<CR>")
	require.NoError(t, res.Err)
	assert.False(t, doc.IsModified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onetwo\n", string(data))
}

func TestApplication_WriteScratch(t *testing.T) {
	app, _ := newTestApp(t)
	doc, err := app.OpenScratch("draft\n")
	require.NoError(t, err)

	res := send(t, app, ":w<CR>")
	assert.ErrorIs(t, res.Err, ErrNoFilePath)

	path := filepath.Join(t.TempDir(), "saved.txt")
	res = send(t, app, ":write "+path+"<CR>")
	require.NoError(t, res.Err)
	assert.Equal(t, path, doc.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "draft\n", string(data))
}

func TestApplication_Quit(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.OpenScratch("text\n")
	require.NoError(t, err)

	send(t, app, "x")
	res := send(t, app, ":q<CR>")
	assert.ErrorIs(t, res.Err, ErrUnsavedChanges)
	assert.False(t, app.QuitRequested())
	assert.Equal(t, 1, app.Documents().Count())

	res = send(t, app, ":q extra<CR>")
	assert.ErrorIs(t, res.Err, ErrTrailingCharacters)

	res = send(t, app, ":q!<CR>")
	require.NoError(t, res.Err)
	assert.True(t, app.QuitRequested())
	assert.Zero(t, app.Documents().Count())
}

func TestApplication_QuitClosesOneDocument(t *testing.T) {
	app, _ := newTestApp(t)
	first, err := app.OpenScratch("a\n")
	require.NoError(t, err)
	_, err = app.OpenScratch("b\n")
	require.NoError(t, err)

	res := send(t, app, ":quit<CR>")
	require.NoError(t, res.Err)
	assert.False(t, app.QuitRequested())
	assert.Same(t, first, app.Active())
}

func TestApplication_WriteQuit(t *testing.T) {
	app, _ := newTestApp(t)
	path := writeFile(t, "wq.txt", "x\n")
	_, err := app.Open(path)
	require.NoError(t, err)

	send(t, app, "dd")
	res := send(t, app, ":wq<CR>")
	require.NoError(t, res.Err)
	assert.True(t, app.QuitRequested())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", string(data))
}

func TestApplication_QuitAll(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.OpenScratch("a\n")
	require.NoError(t, err)
	send(t, app, "x")
	_, err = app.OpenScratch("b\n")
	require.NoError(t, err)

	res := send(t, app, ":qa<CR>")
	assert.ErrorIs(t, res.Err, ErrUnsavedChanges)
	assert.False(t, app.QuitRequested())

	res = send(t, app, ":qall!<CR>")
	require.NoError(t, res.Err)
	assert.True(t, app.QuitRequested())
}

func TestApplication_EditAndBufferSwitch(t *testing.T) {
	app, _ := newTestApp(t)
	pathA := writeFile(t, "a.txt", "alpha\n")
	pathB := writeFile(t, "b.txt", "beta\n")

	docA, err := app.Open(pathA)
	require.NoError(t, err)

	res := send(t, app, ":e "+pathB+"<CR>")
	require.NoError(t, res.Err)
	docB := app.Active()
	require.NotSame(t, docA, docB)
	assert.Equal(t, []string{"beta"}, docB.Lines())

	send(t, app, ":bn<CR>")
	assert.Same(t, docA, app.Active())
	send(t, app, ":bp<CR>")
	assert.Same(t, docB, app.Active())

	res = send(t, app, ":bd<CR>")
	require.NoError(t, res.Err)
	assert.Same(t, docA, app.Active())
	assert.Equal(t, 1, app.Documents().Count())
}

func TestApplication_EditReloads(t *testing.T) {
	app, _ := newTestApp(t)
	path := writeFile(t, "r.txt", "original\n")
	doc, err := app.Open(path)
	require.NoError(t, err)

	send(t, app, "x")
	res := send(t, app, ":e<CR>")
	assert.ErrorIs(t, res.Err, ErrUnsavedChanges)

	require.NoError(t, os.WriteFile(path, []byte("external\n"), 0o644))
	res = send(t, app, ":e!<CR>")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"external"}, doc.Lines())
	assert.False(t, doc.IsModified())
}

func TestApplication_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.OpenScratch("")
	require.NoError(t, err)

	res := send(t, app, ":frobnicate<CR>")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "not an editor command")
}

func TestApplication_SharedRegisters(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.OpenScratch("from first\n")
	require.NoError(t, err)
	send(t, app, "yy")

	second, err := app.OpenScratch("second\n")
	require.NoError(t, err)
	send(t, app, "p")
	assert.Equal(t, []string{"second", "from first"}, second.Lines())
	assert.Equal(t, "from first\n", app.Registers().Get('0').Content)
}

func TestApplication_Clipboard(t *testing.T) {
	clip := &fakeClipboard{}
	cfg := testConfig()
	cfg.Editor.Clipboard = config.ClipboardUnnamedPlus
	app := New(Options{Config: cfg, Clipboard: clip})
	defer app.Close()

	_, err := app.OpenScratch("copy me\n")
	require.NoError(t, err)
	send(t, app, "yy")

	got, _ := clip.Get()
	assert.Equal(t, "copy me\n", got)

	cfg2 := testConfig()
	app.ApplyConfig(cfg2)
	require.NoError(t, clip.Set(""))
	send(t, app, "yy")
	got, _ = clip.Get()
	assert.Empty(t, got)
}

func TestApplication_ApplyConfig(t *testing.T) {
	app, _ := newTestApp(t)
	doc, err := app.OpenScratch("x\n")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Editor.ShiftWidth = 2
	cfg.Editor.ExpandTab = false
	app.ApplyConfig(cfg)

	assert.Same(t, cfg, app.Config())
	opts := doc.Handler.EditorOptions()
	assert.Equal(t, 2, opts.ShiftWidth)
	assert.False(t, opts.ExpandTab)

	send(t, app, ">>")
	assert.Equal(t, []string{"\tx"}, doc.Lines())
}

func TestApplication_WatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 4\n"), 0o644))

	app, _ := newTestApp(t)
	doc, err := app.OpenScratch("")
	require.NoError(t, err)

	require.NoError(t, app.WatchConfig([]string{path, filepath.Join(dir, "missing", "config.yaml")}))
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nshiftwidth = 6\n"), 0o644))

	require.Eventually(t, func() bool {
		return doc.Handler.EditorOptions().ShiftWidth == 6
	}, 3*time.Second, 20*time.Millisecond)
}

func TestApplication_WatchConfigNoDirectories(t *testing.T) {
	app, _ := newTestApp(t)
	assert.NoError(t, app.WatchConfig([]string{filepath.Join(t.TempDir(), "nope", "config.toml")}))
}

func TestLookupEx(t *testing.T) {
	tests := []struct {
		word string
		want string
		ok   bool
	}{
		{"w", "w[rite]", true},
		{"write", "w[rite]", true},
		{"writ", "w[rite]", true},
		{"wq", "wq", true},
		{"q", "q[uit]", true},
		{"qa", "qa[ll]", true},
		{"qall", "qa[ll]", true},
		{"bn", "bn[ext]", true},
		{"b", "", false},
		{"writes", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		cmd, ok := lookupEx(tt.word)
		assert.Equal(t, tt.ok, ok, tt.word)
		if ok {
			assert.Equal(t, tt.want, cmd.spec, tt.word)
		}
	}
}

func TestParseHostEx(t *testing.T) {
	name, bang, args := parseHostEx(":w! out.txt")
	assert.Equal(t, "w", name)
	assert.True(t, bang)
	assert.Equal(t, "out.txt", args)

	name, bang, args = parseHostEx("e")
	assert.Equal(t, "e", name)
	assert.False(t, bang)
	assert.Empty(t, args)
}
