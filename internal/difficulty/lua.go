// internal/difficulty/lua.go
//
// Scripted difficulty curve backed by gopher-lua.
// A script defines either or both of these globals:
//
//	function scale_factor(level) return 120 end
//	function move_boost(target) return 0 end
//
// Missing functions, runtime errors, non-numeric results and calls running
// longer than callTimeout fall back to the default curve and are logged at
// warn level.

package difficulty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

const (
	fnScaleFactor = "scale_factor"
	fnMoveBoost   = "move_boost"

	// callTimeout bounds one curve function call; curves run under the game lock.
	callTimeout = 100 * time.Millisecond
)

// ErrNoCurveFunctions is returned when a script defines neither function.
var ErrNoCurveFunctions = errors.New("difficulty: script defines no curve functions")

// LuaCurve evaluates curve functions in a private Lua state.
type LuaCurve struct {
	mu       sync.Mutex // *lua.LState is not goroutine-safe
	L        *lua.LState
	fallback Curve
}

// LoadLua reads and compiles the script at path.
func LoadLua(path string) (*LuaCurve, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseLua(string(src))
}

// ParseLua compiles src and checks it defines at least one curve function.
func ParseLua(src string) (*LuaCurve, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenMath(L)
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("difficulty script: %w", err)
	}
	if !isFunc(L.GetGlobal(fnScaleFactor)) && !isFunc(L.GetGlobal(fnMoveBoost)) {
		L.Close()
		return nil, ErrNoCurveFunctions
	}
	return &LuaCurve{L: L, fallback: Default()}, nil
}

func isFunc(v lua.LValue) bool { return v.Type() == lua.LTFunction }

// ScaleFactor implements Curve.
func (c *LuaCurve) ScaleFactor(level int) int {
	if v, ok := c.call(fnScaleFactor, level); ok {
		return v
	}
	return c.fallback.ScaleFactor(level)
}

// MoveBoost implements Curve.
func (c *LuaCurve) MoveBoost(target int) int {
	if v, ok := c.call(fnMoveBoost, target); ok {
		return v
	}
	return c.fallback.MoveBoost(target)
}

// call invokes fn(arg) and returns its integer result.
func (c *LuaCurve) call(fn string, arg int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.L.GetGlobal(fn)
	if !isFunc(f) {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	c.L.SetContext(ctx)
	err := c.L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true}, lua.LNumber(arg))
	c.L.RemoveContext()
	if err != nil {
		log.Warn().Err(err).Str("fn", fn).Int("arg", arg).Msg("difficulty script failed")
		return 0, false
	}
	ret := c.L.Get(-1)
	c.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		log.Warn().Str("fn", fn).Str("type", ret.Type().String()).Msg("difficulty script returned non-number")
		return 0, false
	}
	v := int(n)
	if v < 0 {
		v = 0
	}
	return v, true
}

// Close releases the Lua state.
func (c *LuaCurve) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.L.Close()
}
