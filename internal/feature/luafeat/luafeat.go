// Package luafeat lets hosts define feature descriptors in Lua.
//
// A script registers features by calling the `feature` global with a table:
//
//	feature{
//	    name = "conceal",
//	    deferred = true,
//	    disable = function(doc)
//	        doc.set_flag("conceal", false)
//	    end,
//	}
//
// The disable function receives a document table carrying the document's id
// and path plus set_flag/get_flag accessors over the document-scoped flag
// store. Scripts run in a sandboxed interpreter with only the base, table,
// string, and math libraries open.
package luafeat

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/feature"
)

// ErrStateClosed is returned when using a closed State.
var ErrStateClosed = errors.New("lua state is closed")

// State wraps a sandboxed Lua interpreter.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all
// access, so one State may back many features.
type State struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewState creates a sandboxed Lua state.
func NewState() *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Base opens a few escape hatches the sandbox does not allow.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	return &State{L: L}
}

// Close releases the interpreter. Features backed by this state fail with
// ErrStateClosed afterwards.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.L.Close()
	}
}

// do runs fn with exclusive access to the interpreter.
func (s *State) do(fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	return fn(s.L)
}

// Feature is a feature.Descriptor whose disable action is a Lua function.
type Feature struct {
	state    *State
	name     string
	deferred bool
	fn       *lua.LFunction
}

// Name returns the feature name.
func (f *Feature) Name() string { return f.name }

// Deferred reports the deferred classification.
func (f *Feature) Deferred() bool { return f.deferred }

// Disable calls the script's disable function with the document table.
func (f *Feature) Disable(doc *document.Document) error {
	return f.state.do(func(L *lua.LState) error {
		L.Push(f.fn)
		L.Push(documentTable(L, doc))
		if err := L.PCall(1, 0, nil); err != nil {
			return fmt.Errorf("lua feature %q: %w", f.name, err)
		}
		return nil
	})
}

// Load runs a script in the state and registers every feature it declares.
// A script error or an invalid declaration aborts the load; features
// registered before the failure stay registered.
func Load(s *State, reg *feature.Registry, source string) error {
	return s.do(func(L *lua.LState) error {
		L.SetGlobal("feature", L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)

			name, ok := tbl.RawGetString("name").(lua.LString)
			if !ok || name == "" {
				L.RaiseError("feature: 'name' must be a non-empty string")
			}
			fn, ok := tbl.RawGetString("disable").(*lua.LFunction)
			if !ok {
				L.RaiseError("feature %q: 'disable' must be a function", string(name))
			}
			deferred := lua.LVAsBool(tbl.RawGetString("deferred"))

			f := &Feature{
				state:    s,
				name:     string(name),
				deferred: deferred,
				fn:       fn,
			}
			if err := reg.Register(f); err != nil {
				L.RaiseError("feature %q: %v", f.name, err)
			}
			return 0
		}))
		defer L.SetGlobal("feature", lua.LNil)

		if err := L.DoString(source); err != nil {
			return fmt.Errorf("loading lua features: %w", err)
		}
		return nil
	})
}

// documentTable builds the table handed to a disable function.
func documentTable(L *lua.LState, doc *document.Document) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LString(string(doc.ID())))
	tbl.RawSetString("path", lua.LString(doc.Path()))
	tbl.RawSetString("set_flag", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		doc.SetFlag(key, luaToGo(L.CheckAny(2)))
		return 0
	}))
	tbl.RawSetString("get_flag", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		v, ok := doc.Flag(key)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(goToLua(v))
		return 1
	}))
	return tbl
}

// luaToGo converts a Lua value into its Go flag representation.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	default:
		return v.String()
	}
}

// goToLua converts a flag value back into a Lua value.
func goToLua(v any) lua.LValue {
	switch val := v.(type) {
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	default:
		return lua.LNil
	}
}
