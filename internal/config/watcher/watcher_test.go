package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// collect records delivered events.
type collect struct {
	mu     sync.Mutex
	events []Event
}

func (c *collect) handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collect) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestNew(t *testing.T) {
	w := newTestWatcher(t)
	assert.Equal(t, 100*time.Millisecond, w.debounce)
	assert.False(t, w.IsRunning())

	w = newTestWatcher(t, WithDebounce(20*time.Millisecond), WithDebounce(-1))
	assert.Equal(t, 20*time.Millisecond, w.debounce)
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in.String())
		if ok {
			assert.Equal(t, tt.want, got, tt.in.String())
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	require.NoError(t, w.Watch(a))
	assert.ElementsMatch(t, []string{a, b}, w.WatchedFiles())
	assert.Equal(t, 2, w.dirs[dir])

	require.NoError(t, w.Unwatch(a))
	assert.Equal(t, []string{b}, w.WatchedFiles())
	require.NoError(t, w.Unwatch(b))
	assert.Empty(t, w.WatchedFiles())
	assert.NotContains(t, w.dirs, dir)

	assert.Error(t, w.Watch(filepath.Join(dir, "missing", "c.toml")))
}

func TestWatcher_WatchAfterClose(t *testing.T) {
	w := newTestWatcher(t)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "x.toml")), ErrClosed)
	assert.NoError(t, w.Close())
}

func TestWatcher_StartStop(t *testing.T) {
	w := newTestWatcher(t)
	w.Start()
	w.Start()
	assert.True(t, w.IsRunning())
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestWatcher_DetectsModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	w := newTestWatcher(t, WithDebounce(0))
	var got collect
	w.OnChange(got.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0o644))

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	ev := got.snapshot()[0]
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, OpWrite, ev.Op)
}

func TestWatcher_DetectsCreation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w := newTestWatcher(t, WithDebounce(0))
	var got collect
	w.OnChange(got.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("editor: {}\n"), 0o644))

	require.Eventually(t, func() bool {
		for _, ev := range got.snapshot() {
			if ev.Op == OpCreate {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w := newTestWatcher(t, WithDebounce(0))
	var got collect
	w.OnChange(got.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	for _, ev := range got.snapshot() {
		assert.Equal(t, path, ev.Path)
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w := newTestWatcher(t, WithDebounce(50*time.Millisecond))
	var got collect
	w.OnChange(got.handle)
	require.NoError(t, w.Watch(path))
	w.Start()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, got.snapshot(), 1)
}

func TestWatcher_QueueEventCoalesces(t *testing.T) {
	w := newTestWatcher(t)
	now := time.Now()

	w.queueEvent(Event{Path: "/a", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: now.Add(time.Millisecond)})
	assert.Equal(t, OpCreate, w.pendingFiles["/a"].Op)
	assert.Equal(t, now.Add(time.Millisecond), w.pendingFiles["/a"].Time)

	w.queueEvent(Event{Path: "/a", Op: OpRemove, Time: now})
	assert.Equal(t, OpRemove, w.pendingFiles["/a"].Op)
}

func TestWatcher_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(0))
	var got collect
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(got.handle)

	w.emitEvent(Event{Path: "/x", Op: OpWrite})
	assert.Len(t, got.snapshot(), 1)
}
