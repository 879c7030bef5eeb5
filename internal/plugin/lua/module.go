package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Host is the editor surface the vim module drives. Lines are zero-based;
// SetLines replaces the half-open range [first, last).
type Host interface {
	Lines() []string
	SetLines(first, last int, lines []string) error
	Cursor() (line, col int)
	SetCursor(line, col int)
	Register(name rune) (content string, linewise bool)
	SetRegister(name rune, content string, linewise bool) error
	Mode() string
	Normal(keys string) error
	Message(text string)
}

// module implements the vim API table.
type module struct {
	host Host
}

func newModule(host Host) *module {
	return &module{host: host}
}

// register installs the vim table into the Lua state.
func (m *module) register(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"line_count":   m.lineCount,
		"line":         m.line,
		"lines":        m.lines,
		"set_lines":    m.setLines,
		"cursor":       m.cursor,
		"set_cursor":   m.setCursor,
		"register":     m.getRegister,
		"set_register": m.setRegister,
		"mode":         m.mode,
		"normal":       m.normal,
		"message":      m.message,
	})
	L.SetGlobal("vim", mod)
}

// line_count() -> number
func (m *module) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(len(m.host.Lines())))
	return 1
}

// line(n) -> string
// Returns the text of line n (zero-based).
func (m *module) line(L *lua.LState) int {
	n := L.CheckInt(1)
	lines := m.host.Lines()
	if n < 0 || n >= len(lines) {
		L.ArgError(1, "line out of range")
		return 0
	}
	L.Push(lua.LString(lines[n]))
	return 1
}

// lines([first [, last]]) -> table
func (m *module) lines(L *lua.LState) int {
	all := m.host.Lines()
	first := L.OptInt(1, 0)
	last := L.OptInt(2, len(all))
	first = min(max(first, 0), len(all))
	last = min(max(last, first), len(all))
	L.Push(stringsToTable(L, all[first:last]))
	return 1
}

// set_lines(first, last, table)
func (m *module) setLines(L *lua.LState) int {
	first := L.CheckInt(1)
	last := L.CheckInt(2)
	lines, err := tableToStrings(L.CheckTable(3))
	if err != nil {
		L.ArgError(3, err.Error())
		return 0
	}
	if err := m.host.SetLines(first, last, lines); err != nil {
		L.RaiseError("set_lines: %v", err)
	}
	return 0
}

// cursor() -> line, col
func (m *module) cursor(L *lua.LState) int {
	line, col := m.host.Cursor()
	L.Push(lua.LNumber(line))
	L.Push(lua.LNumber(col))
	return 2
}

// set_cursor(line, col)
func (m *module) setCursor(L *lua.LState) int {
	m.host.SetCursor(L.CheckInt(1), L.OptInt(2, 0))
	return 0
}

// register(name) -> content, kind
func (m *module) getRegister(L *lua.LState) int {
	content, linewise := m.host.Register(checkRegister(L, 1))
	kind := "c"
	if linewise {
		kind = "l"
	}
	L.Push(lua.LString(content))
	L.Push(lua.LString(kind))
	return 2
}

// set_register(name, text [, kind])
func (m *module) setRegister(L *lua.LState) int {
	name := checkRegister(L, 1)
	content := L.CheckString(2)
	linewise := L.OptString(3, "c") == "l"
	if err := m.host.SetRegister(name, content, linewise); err != nil {
		L.RaiseError("set_register: %v", err)
	}
	return 0
}

// mode() -> string
func (m *module) mode(L *lua.LState) int {
	L.Push(lua.LString(m.host.Mode()))
	return 1
}

// normal(keys)
func (m *module) normal(L *lua.LState) int {
	if err := m.host.Normal(L.CheckString(1)); err != nil {
		L.RaiseError("normal: %v", err)
	}
	return 0
}

// message(text)
func (m *module) message(L *lua.LState) int {
	m.host.Message(L.CheckString(1))
	return 0
}
