package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// stringsToTable converts a Go string slice into a Lua array.
func stringsToTable(L *lua.LState, s []string) *lua.LTable {
	t := L.CreateTable(len(s), 0)
	for _, v := range s {
		t.Append(lua.LString(v))
	}
	return t
}

// tableToStrings converts a Lua array into a Go string slice. Numbers are
// converted; any other element type is an error.
func tableToStrings(t *lua.LTable) ([]string, error) {
	n := t.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		switch v := t.RawGetInt(i).(type) {
		case lua.LString:
			out = append(out, string(v))
		case lua.LNumber:
			out = append(out, v.String())
		default:
			return nil, fmt.Errorf("element %d is a %s, want string", i, v.Type())
		}
	}
	return out, nil
}

// checkRegister reads a one-character register name argument.
func checkRegister(L *lua.LState, n int) rune {
	name := []rune(L.CheckString(n))
	if len(name) != 1 {
		L.ArgError(n, "register name must be one character")
		return 0
	}
	return name[0]
}
