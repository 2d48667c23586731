package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/artificer/internal/gen"
)

// Providers owns one sandboxed LState holding every loaded provider script.
// The mutex serializes provider calls; the LState is single-threaded.
type Providers struct {
	mu     sync.Mutex
	state  *lua.LState
	logger *zap.Logger
}

// Load creates a sandboxed VM and executes every *.lua file in scriptDir in
// lexicographic order. Scripts define providers as global functions named
// get_<requirement> taking the attribute mapping-so-far as a table and
// returning the requirement's value.
//
// Precondition: scriptDir must be a readable directory; logger must be non-nil.
// Postcondition: Returns a non-nil Providers or an error on Lua load failure.
// The caller must Close the Providers when done.
func Load(scriptDir string, instLimit int, logger *zap.Logger) (*Providers, error) {
	L := NewSandboxedState(instLimit)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	logger.Debug("provider scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return &Providers{state: L, logger: logger}, nil
}

// Close releases the Lua VM.
func (p *Providers) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
}

// Lookup returns a provider for the requirement when a get_<requirement>
// function is defined, satisfying gen.ProviderLookup.
func (p *Providers) Lookup(requirement string) (gen.ProviderFunc, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return nil, false
	}
	fn, ok := p.state.GetGlobal("get_" + requirement).(*lua.LFunction)
	if !ok {
		return nil, false
	}
	return p.provider(requirement, fn), true
}

func (p *Providers) provider(requirement string, fn *lua.LFunction) gen.ProviderFunc {
	return func(attrs map[string]any) (any, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.state == nil {
			return nil, fmt.Errorf("scripting: provider get_%s called after Close", requirement)
		}

		if err := p.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, toLua(p.state, attrs)); err != nil {
			return nil, fmt.Errorf("scripting: provider get_%s: %w", requirement, err)
		}
		ret := p.state.Get(-1)
		p.state.Pop(1)

		value := fromLua(ret)
		if value == nil {
			return nil, fmt.Errorf("scripting: provider get_%s returned nil", requirement)
		}
		return value, nil
	}
}

// toLua converts a raw attribute value into a Lua value. Unsupported types
// convert to their string form rather than failing; provider scripts only
// read, never validate.
func toLua(L *lua.LState, v any) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(t)
	case int:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case map[string]any:
		tbl := L.NewTable()
		for k, val := range t {
			tbl.RawSetString(k, toLua(L, val))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, val := range t {
			tbl.Append(toLua(L, val))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", t))
	}
}

// fromLua converts a Lua return value into a raw attribute value. Tables
// with any string key become mappings; purely array-like tables become
// sequences. Integral numbers become ints so they interpolate cleanly.
func fromLua(v lua.LValue) any {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(t)
	case lua.LNumber:
		f := float64(t)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(t)
	case *lua.LTable:
		hasStringKey := false
		t.ForEach(func(k, _ lua.LValue) {
			if _, ok := k.(lua.LString); ok {
				hasStringKey = true
			}
		})
		if hasStringKey {
			m := make(map[string]any)
			t.ForEach(func(k, val lua.LValue) {
				if ks, ok := k.(lua.LString); ok {
					m[string(ks)] = fromLua(val)
				}
			})
			return m
		}
		n := t.Len()
		seq := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			seq = append(seq, fromLua(t.RawGetInt(i)))
		}
		return seq
	default:
		return nil
	}
}
