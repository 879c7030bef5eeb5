package input

import (
	"sort"
	"sync"

	"github.com/dshills/vimcore/internal/input/key"
)

// Hook intercepts key events before and after the engine sees them.
type Hook interface {
	// PreKey runs before the key is processed and may rewrite it.
	// Returning true consumes the key.
	PreKey(ev *key.Event) bool

	// PostKey runs after the key was processed and may adjust the result.
	PostKey(ev key.Event, res *Result)
}

// HookFunc adapts a function to a Hook that only observes results.
type HookFunc func(ev key.Event, res *Result)

// PreKey implements Hook.
func (f HookFunc) PreKey(*key.Event) bool { return false }

// PostKey implements Hook.
func (f HookFunc) PostKey(ev key.Event, res *Result) { f(ev, res) }

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
)

// HookID uniquely identifies a registered hook.
type HookID uint64

type hookRegistration struct {
	id       HookID
	name     string
	priority HookPriority
	hook     Hook
}

// HookManager runs hooks in priority order. Hooks with equal priority run
// in registration order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []hookRegistration
	nextID  HookID
	enabled bool
}

// NewHookManager creates an enabled hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook and returns its id.
func (m *HookManager) Register(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, hookRegistration{id: m.nextID, name: name, priority: priority, hook: hook})
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].priority < m.hooks[j].priority
	})
	return m.nextID
}

// Unregister removes a hook. It reports whether the hook was registered.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, reg := range m.hooks {
		if reg.id == id {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the names of registered hooks in execution order.
func (m *HookManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.hooks))
	for i, reg := range m.hooks {
		names[i] = reg.name
	}
	return names
}

// SetEnabled turns all hooks on or off.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

func (m *HookManager) snapshot() []Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.enabled {
		return nil
	}
	out := make([]Hook, len(m.hooks))
	for i, reg := range m.hooks {
		out[i] = reg.hook
	}
	return out
}

// RunPre runs PreKey hooks until one consumes the key.
func (m *HookManager) RunPre(ev *key.Event) bool {
	for _, h := range m.snapshot() {
		if h.PreKey(ev) {
			return true
		}
	}
	return false
}

// RunPost runs every PostKey hook.
func (m *HookManager) RunPost(ev key.Event, res *Result) {
	for _, h := range m.snapshot() {
		h.PostKey(ev, res)
	}
}
