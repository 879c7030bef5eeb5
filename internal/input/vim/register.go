package vim

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// RegisterKind tags register content as charwise or linewise.
type RegisterKind uint8

const (
	// Charwise content is pasted inside a line.
	Charwise RegisterKind = iota

	// Linewise content is whole lines, each ending with a line break.
	Linewise
)

// String returns "char" or "line".
func (k RegisterKind) String() string {
	if k == Linewise {
		return "line"
	}
	return "char"
}

// Register is the content of one register.
type Register struct {
	// Content is the stored text. Linewise content ends with "\n".
	Content string

	// Kind tells paste how to insert the content.
	Kind RegisterKind
}

// IsEmpty reports whether the register holds no text.
func (r Register) IsEmpty() bool {
	return r.Content == ""
}

// IsLinewise reports whether the content is line oriented.
func (r Register) IsLinewise() bool {
	return r.Kind == Linewise
}

// Lines splits linewise content into its lines.
func (r Register) Lines() []string {
	return strings.Split(strings.TrimSuffix(r.Content, "\n"), "\n")
}

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set sets the clipboard content.
	Set(content string) error
}

// Clipboard option values.
const (
	ClipboardNone        = ""
	ClipboardUnnamed     = "unnamed"
	ClipboardUnnamedPlus = "unnamedplus"
)

// RegisterStore manages all registers of one engine.
type RegisterStore struct {
	mu        sync.RWMutex
	registers map[rune]*Register

	// clipboard provides system clipboard access for + and *.
	clipboard ClipboardProvider

	// unnamedTarget mirrors unnamed writes to '*' or '+' (0 when off).
	unnamedTarget rune
}

// NewRegisterStore creates an empty register store.
func NewRegisterStore() *RegisterStore {
	return &RegisterStore{registers: make(map[rune]*Register)}
}

// SetClipboard sets the clipboard provider for system clipboard integration.
func (rs *RegisterStore) SetClipboard(clipboard ClipboardProvider) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.clipboard = clipboard
}

// SetClipboardMode applies the clipboard option. "unnamed" mirrors the
// unnamed register to '*', "unnamedplus" to '+'.
func (rs *RegisterStore) SetClipboardMode(mode string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	switch mode {
	case ClipboardUnnamed:
		rs.unnamedTarget = '*'
	case ClipboardUnnamedPlus:
		rs.unnamedTarget = '+'
	default:
		rs.unnamedTarget = 0
	}
}

// Get returns the content of a register. Name 0 means the unnamed register.
// Uppercase names read the lowercase register.
func (rs *RegisterStore) Get(name rune) Register {
	name = normalizeName(name)

	rs.mu.RLock()
	clipboard := rs.clipboard
	target := rs.unnamedTarget
	stored := rs.lookup(name)
	rs.mu.RUnlock()

	if name == '"' && target != 0 && clipboard != nil {
		return rs.readClipboard(clipboard, stored)
	}
	if isClipboardRegister(name) && clipboard != nil {
		return rs.readClipboard(clipboard, stored)
	}
	return stored
}

// readClipboard returns the clipboard text, keeping the stored kind when the
// clipboard still holds what this store wrote.
func (rs *RegisterStore) readClipboard(clipboard ClipboardProvider, stored Register) Register {
	content, err := clipboard.Get()
	if err != nil || content == stored.Content {
		return stored
	}
	if strings.HasSuffix(content, "\n") {
		return Register{Content: content, Kind: Linewise}
	}
	return Register{Content: content, Kind: Charwise}
}

// Set stores content in a register as an explicit write. Uppercase named
// registers append. Read-only registers and the black hole ignore writes.
func (rs *RegisterStore) Set(name rune, reg Register) {
	if name == 0 {
		name = '"'
	}
	if name == '_' || !IsWritableRegister(name) {
		return
	}

	rs.mu.Lock()
	clipboard := rs.writeLocked(name, reg)
	rs.mu.Unlock()

	if clipboard != nil {
		_ = clipboard.Set(reg.Content)
	}
}

// Yank records yanked text. The unnamed register and register 0 receive it
// unless a register was named, in which case that register and the unnamed
// register do.
func (rs *RegisterStore) Yank(name rune, reg Register) {
	if name == '_' {
		return
	}

	rs.mu.Lock()
	var clipboards []string
	if name == 0 || name == '"' {
		rs.registers['0'] = &Register{Content: reg.Content, Kind: reg.Kind}
	} else if c := rs.writeLocked(name, reg); c != nil {
		clipboards = append(clipboards, reg.Content)
	}
	unnamed := rs.setUnnamedLocked(reg)
	clipboard := rs.clipboard
	rs.mu.Unlock()

	if unnamed {
		clipboards = append(clipboards, reg.Content)
	}
	rs.flushClipboard(clipboard, clipboards)
}

// Delete records deleted text. Without a named register, small deletes go
// to '-' and others shift the numbered ring 1-9.
func (rs *RegisterStore) Delete(name rune, reg Register, small bool) {
	if name == '_' {
		return
	}

	rs.mu.Lock()
	var clipboards []string
	switch {
	case name != 0 && name != '"':
		if c := rs.writeLocked(name, reg); c != nil {
			clipboards = append(clipboards, reg.Content)
		}
	case small:
		rs.registers['-'] = &Register{Content: reg.Content, Kind: reg.Kind}
	default:
		for i := '9'; i > '1'; i-- {
			if prev, ok := rs.registers[i-1]; ok {
				rs.registers[i] = prev
			} else {
				delete(rs.registers, i)
			}
		}
		rs.registers['1'] = &Register{Content: reg.Content, Kind: reg.Kind}
	}
	unnamed := rs.setUnnamedLocked(reg)
	clipboard := rs.clipboard
	rs.mu.Unlock()

	if unnamed {
		clipboards = append(clipboards, reg.Content)
	}
	rs.flushClipboard(clipboard, clipboards)
}

// SetLastInserted updates the read-only '.' register.
func (rs *RegisterStore) SetLastInserted(content string) {
	rs.setReadOnly('.', content)
}

// SetLastCommand updates the read-only ':' register.
func (rs *RegisterStore) SetLastCommand(cmd string) {
	rs.setReadOnly(':', cmd)
}

// SetLastSearch updates the read-only '/' register.
func (rs *RegisterStore) SetLastSearch(pattern string) {
	rs.setReadOnly('/', pattern)
}

// Entry is one non-empty register in a listing.
type Entry struct {
	Name rune
	Register
}

// Entries lists the non-empty registers in display order: unnamed, numbered,
// small delete, named, then the read-only ones.
func (rs *RegisterStore) Entries() []Entry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	entries := make([]Entry, 0, len(rs.registers))
	for name, reg := range rs.registers {
		if reg == nil || reg.IsEmpty() {
			continue
		}
		entries = append(entries, Entry{Name: name, Register: *reg})
	}
	sort.Slice(entries, func(i, j int) bool {
		ri, rj := displayRank(entries[i].Name), displayRank(entries[j].Name)
		if ri != rj {
			return ri < rj
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Clear empties every register.
func (rs *RegisterStore) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.registers = make(map[rune]*Register)
}

func (rs *RegisterStore) lookup(name rune) Register {
	if reg, ok := rs.registers[name]; ok && reg != nil {
		return *reg
	}
	return Register{}
}

// writeLocked stores reg in a named, numbered or clipboard register and
// returns the clipboard provider when the write must reach it.
func (rs *RegisterStore) writeLocked(name rune, reg Register) ClipboardProvider {
	if unicode.IsUpper(name) {
		lower := unicode.ToLower(name)
		cur := rs.lookup(lower)
		rs.registers[lower] = appendRegister(cur, reg)
		return nil
	}
	rs.registers[name] = &Register{Content: reg.Content, Kind: reg.Kind}
	if isClipboardRegister(name) {
		return rs.clipboard
	}
	return nil
}

// setUnnamedLocked writes the unnamed register and reports whether the
// clipboard option asks for a mirror write.
func (rs *RegisterStore) setUnnamedLocked(reg Register) bool {
	rs.registers['"'] = &Register{Content: reg.Content, Kind: reg.Kind}
	if rs.unnamedTarget == 0 {
		return false
	}
	rs.registers[rs.unnamedTarget] = &Register{Content: reg.Content, Kind: reg.Kind}
	return rs.clipboard != nil
}

func (rs *RegisterStore) flushClipboard(clipboard ClipboardProvider, contents []string) {
	if clipboard == nil || len(contents) == 0 {
		return
	}
	_ = clipboard.Set(contents[len(contents)-1])
}

func (rs *RegisterStore) setReadOnly(name rune, content string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.registers[name] = &Register{Content: content, Kind: Charwise}
}

// appendRegister implements "Ayy style appends. Appending linewise text to
// charwise content makes the result linewise.
func appendRegister(cur, add Register) *Register {
	if cur.IsEmpty() {
		return &Register{Content: add.Content, Kind: add.Kind}
	}
	switch {
	case add.Kind == Linewise && cur.Kind == Charwise:
		return &Register{Content: cur.Content + "\n" + add.Content, Kind: Linewise}
	case cur.Kind == Linewise && add.Kind == Charwise:
		return &Register{Content: cur.Content + add.Content + "\n", Kind: Linewise}
	default:
		return &Register{Content: cur.Content + add.Content, Kind: cur.Kind}
	}
}

func normalizeName(name rune) rune {
	if name == 0 {
		return '"'
	}
	if name >= 'A' && name <= 'Z' {
		return unicode.ToLower(name)
	}
	return name
}

func isClipboardRegister(name rune) bool {
	return name == '+' || name == '*'
}

func displayRank(name rune) int {
	switch {
	case name == '"':
		return 0
	case name >= '0' && name <= '9':
		return 1
	case name == '-':
		return 2
	case name >= 'a' && name <= 'z':
		return 3
	case isClipboardRegister(name):
		return 4
	default:
		return 5
	}
}

// IsValidRegister returns true if the register name may follow ".
func IsValidRegister(name rune) bool {
	switch {
	case name == '"':
		return true
	case name >= 'a' && name <= 'z':
		return true
	case name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	case name == '-', name == '_', name == '.':
		return true
	case name == ':', name == '/':
		return true
	case name == '+', name == '*':
		return true
	default:
		return false
	}
}

// IsWritableRegister reports whether a yank or delete may target name.
func IsWritableRegister(name rune) bool {
	switch name {
	case '.', ':', '/':
		return false
	}
	return IsValidRegister(name)
}
