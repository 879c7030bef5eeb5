package mode

import (
	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
)

// ChangeCallback is called after the mode changes.
type ChangeCallback func(from, to Mode)

// Machine holds the modal state of one editing engine.
type Machine struct {
	mode      Mode
	keys      *key.Sequence
	register  rune
	selection Selection
	cmdKind   CommandLineKind
	lastOp    mo.Option[LastOperation]
	insert    insertSession

	// callbacks are notified on mode changes.
	callbacks []ChangeCallback
}

// NewMachine creates a machine in Normal mode.
func NewMachine() *Machine {
	return &Machine{keys: key.NewSequence()}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Is reports whether the current mode is any of modes.
func (m *Machine) Is(modes ...Mode) bool {
	for _, mode := range modes {
		if m.mode == mode {
			return true
		}
	}
	return false
}

// SetMode switches to a mode. The key buffer is cleared; leaving visual
// mode destroys the selection.
func (m *Machine) SetMode(to Mode) {
	from := m.mode
	if from == to {
		return
	}
	m.mode = to
	m.keys.Clear()
	m.register = 0
	if !to.IsVisual() {
		m.selection = Selection{}
	}
	m.notify(from, to)
}

// EnterVisual switches to Visual or VisualLine. A new selection is
// anchored at pos unless one already exists (v after V keeps it).
func (m *Machine) EnterVisual(to Mode, pos text.Position) {
	if !to.IsVisual() {
		return
	}
	if !m.selection.Active() {
		m.selection = NewSelection(pos)
	}
	m.SetMode(to)
}

// EnterInsert switches to Insert and starts recording typed text. When
// repeat is set, leaving Insert records op (with the typed text) as the
// last operation.
func (m *Machine) EnterInsert(op LastOperation, repeat bool) {
	m.insert = insertSession{active: true, repeat: repeat, op: op}
	m.SetMode(Insert)
}

// RecordInsert notes a key typed in Insert mode.
func (m *Machine) RecordInsert(ev key.Event) {
	if m.insert.active {
		m.insert.record(ev)
	}
}

// LeaveInsert ends the insert session, returns to Normal and returns the
// text typed during the session.
func (m *Machine) LeaveInsert() string {
	typed := string(m.insert.written)
	if m.insert.active && m.insert.repeat {
		op := m.insert.op
		op.Inserted = typed
		m.lastOp = mo.Some(op)
	}
	m.insert = insertSession{}
	m.SetMode(Normal)
	return typed
}

// EnterCommandLine switches to CommandLine capturing the given kind.
func (m *Machine) EnterCommandLine(kind CommandLineKind) {
	m.cmdKind = kind
	m.SetMode(CommandLine)
}

// CommandLineKind returns what the command line is capturing.
func (m *Machine) CommandLineKind() CommandLineKind {
	return m.cmdKind
}

// AddKey appends a key to the key buffer.
func (m *Machine) AddKey(ev key.Event) {
	m.keys.Add(ev)
}

// Keys returns a copy of the key buffer.
func (m *Machine) Keys() []key.Event {
	return m.keys.Clone().Events
}

// PendingKeys returns the key buffer in Vim notation.
func (m *Machine) PendingKeys() string {
	return m.keys.String()
}

// ClearKeys empties the key buffer and the active register.
func (m *Machine) ClearKeys() {
	m.keys.Clear()
	m.register = 0
}

// Register returns the register selected for the current command.
func (m *Machine) Register() rune {
	return m.register
}

// SetRegister selects the register for the current command.
func (m *Machine) SetRegister(r rune) {
	m.register = r
}

// Selection returns the visual selection.
func (m *Machine) Selection() Selection {
	return m.selection
}

// MoveSelection sets the selection head to pos.
func (m *Machine) MoveSelection(pos text.Position) {
	if m.selection.Active() {
		m.selection.End = mo.Some(pos)
	}
}

// SetSelection replaces the selection. It is ignored outside visual mode.
func (m *Machine) SetSelection(s Selection) {
	if m.mode.IsVisual() {
		m.selection = s
	}
}

// SwapSelection exchanges anchor and head and returns the new head.
func (m *Machine) SwapSelection() (text.Position, bool) {
	m.selection = m.selection.Swapped()
	return m.selection.End.Get()
}

// LastOperation returns the last repeatable operation.
func (m *Machine) LastOperation() mo.Option[LastOperation] {
	return m.lastOp
}

// SetLastOperation records a repeatable operation.
func (m *Machine) SetLastOperation(op LastOperation) {
	m.lastOp = mo.Some(op)
}

// Reset returns to Normal and clears transient state. The last operation
// survives.
func (m *Machine) Reset() {
	m.insert = insertSession{}
	m.SetMode(Normal)
	m.ClearKeys()
	m.selection = Selection{}
}

// ResetDocument clears transient state and the last operation.
func (m *Machine) ResetDocument() {
	m.Reset()
	m.lastOp = mo.None[LastOperation]()
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Machine) OnChange(callback ChangeCallback) func() {
	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

func (m *Machine) notify(from, to Mode) {
	for _, cb := range m.callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}
