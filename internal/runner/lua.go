package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Lua evaluates code in a fresh gopher-lua VM per run with a reduced
// standard library. print is captured. A chunk that also compiles as
// "return <code>" is run that way so expressions yield a value.
type Lua struct {
	maxMemoryMB int
}

func NewLua(maxMemoryMB int) *Lua { return &Lua{maxMemoryMB: maxMemoryMB} }

func (*Lua) Language() string { return "lua" }

func (e *Lua) Execute(ctx context.Context, p Program) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	L := newLuaVM(e.registryMaxSize())
	defer L.Close()
	L.SetContext(ctx)

	var res Result
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		res.Logs = append(res.Logs, strings.Join(parts, "\t"))
		return 0
	}))

	fn, err := L.LoadString("return " + p.Code)
	if err != nil {
		if fn, err = L.LoadString(p.Code); err != nil {
			return Result{}, luaError(err)
		}
	}

	mon := newMemoryMonitor(e.maxMemoryMB)
	stop := mon.watch(ctx, cancel, p.Name)
	base := L.GetTop()
	L.Push(fn)
	err = L.PCall(0, lua.MultRet, nil)
	stop()

	if mon.wasExceeded() {
		return Result{}, errors.New("memory limit exceeded")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, luaError(err)
	}

	if top := L.GetTop(); top > base {
		vals := make([]string, 0, top-base)
		for i := base + 1; i <= top; i++ {
			vals = append(vals, L.ToStringMeta(L.Get(i)).String())
		}
		res.Value = strings.Join(vals, "\t")
		res.HasValue = true
	}
	return res, nil
}

// registryMaxSize derives a registry cap from the memory limit.
// Each registry slot is roughly 48 bytes; this gives a proportional bound.
func (e *Lua) registryMaxSize() int {
	if e.maxMemoryMB <= 0 {
		return 0
	}
	max := e.maxMemoryMB * 1024 * 1024 / 48
	if max < 5120 {
		max = 5120
	}
	return max
}

// luaError strips the traceback from a Lua error.
func luaError(err error) error {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return errors.New(apiErr.Object.String())
	}
	return fmt.Errorf("%v", err)
}
