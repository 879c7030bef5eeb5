package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install opens the safe libraries, removes the loaders that reach the
// file system and routes print to out.
func (s *Sandbox) Install(out func(string)) {
	lua.OpenBase(s.L)
	lua.OpenTable(s.L)
	lua.OpenString(s.L)
	lua.OpenMath(s.L)

	// io, os, debug and package are never opened.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint(out)
}

// installPrint replaces print with a version that joins its arguments with
// tabs and hands the line to out.
func (s *Sandbox) installPrint(out func(string)) {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if out != nil {
			out(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// Allowed reports whether a global is reachable from sandboxed code.
func (s *Sandbox) Allowed(name string) bool {
	return s.L.GetGlobal(name) != lua.LNil
}
