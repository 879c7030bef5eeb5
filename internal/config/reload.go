package config

import (
	"github.com/dshills/vimcore/internal/config/watcher"
)

// ReloadFunc receives the configuration re-read after a file change, or
// the error that prevented reading it.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads the configuration from paths whenever one of them changes.
// The returned watcher is running; Close it when done.
func Watch(paths []string, onReload ReloadFunc, opts ...watcher.Option) (*watcher.Watcher, error) {
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := w.Watch(path); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	w.OnChange(func(watcher.Event) {
		onReload(Load(paths...))
	})
	w.Start()
	return w, nil
}
