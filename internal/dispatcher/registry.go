package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
)

// exEntry is a registered ex command.
type exEntry struct {
	name    string // full name ("substitute")
	minimum int    // shortest accepted abbreviation length
	handler handler.Handler
}

// Registry maps ex command names to handlers. Names are registered in Vim
// notation, "s[ubstitute]", where the bracketed tail may be omitted.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*exEntry
}

// NewRegistry creates an empty ex command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*exEntry),
	}
}

// parseName splits "s[ubstitute]" into the full name and the abbreviation
// length. A name without brackets must be typed in full.
func parseName(spec string) (string, int) {
	open := strings.IndexByte(spec, '[')
	if open < 0 || !strings.HasSuffix(spec, "]") {
		return spec, len(spec)
	}
	return spec[:open] + spec[open+1:len(spec)-1], open
}

// Register adds a handler. Registering a name again replaces the handler.
func (r *Registry) Register(spec string, h handler.Handler) {
	name, minimum := parseName(spec)
	if name == "" || h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = &exEntry{name: name, minimum: max(minimum, 1), handler: h}
}

// Unregister removes the command with the given full name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get returns the handler for a typed command name, which may be an
// abbreviation. An exact name wins; otherwise the command with the
// shortest abbreviation that word extends is chosen.
func (r *Registry) Get(word string) (handler.Handler, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.commands[word]; ok {
		return e.handler, e.name
	}

	var best *exEntry
	for _, e := range r.commands {
		if len(word) < e.minimum || !strings.HasPrefix(e.name, word) {
			continue
		}
		if best == nil || e.minimum < best.minimum ||
			(e.minimum == best.minimum && e.name < best.name) {
			best = e
		}
	}
	if best == nil {
		return nil, ""
	}
	return best.handler, best.name
}

// Has reports whether word resolves to a registered command.
func (r *Registry) Has(word string) bool {
	h, _ := r.Get(word)
	return h != nil
}

// List returns all registered command names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Clear removes all registered commands.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = make(map[string]*exEntry)
}
