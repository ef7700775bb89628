package runner

import lua "github.com/yuin/gopher-lua"

// newLuaVM creates a gopher-lua VM with a restricted standard library.
func newLuaVM(registryMaxSize int) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       128,
		RegistrySize:        2048,
		RegistryMaxSize:     registryMaxSize,
		RegistryGrowStep:    32,
		MinimizeStackMemory: true,
	})

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.OsLibName, lua.OpenOs},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	pruneOS(L)

	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// pruneOS removes all os functions except time, date, and clock.
func pruneOS(L *lua.LState) {
	osTbl, ok := L.GetGlobal("os").(*lua.LTable)
	if !ok {
		return
	}

	keep := map[string]bool{"time": true, "date": true, "clock": true}
	var toRemove []string
	osTbl.ForEach(func(key, _ lua.LValue) {
		if ks, ok := key.(lua.LString); ok && !keep[string(ks)] {
			toRemove = append(toRemove, string(ks))
		}
	})
	for _, k := range toRemove {
		osTbl.RawSetString(k, lua.LNil)
	}
}
