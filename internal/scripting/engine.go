package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tilesim/server/internal/tile"
)

// TileAPI is the slice of simulation state exposed to animation scripts.
// *world.State implements it.
type TileAPI interface {
	AddAnimated(t tile.Index) bool
	RemoveAnimated(t tile.Index)
	IsAnimated(t tile.Index) bool
	IsValid(t tile.Index) bool
	Category(t tile.Index) tile.Category
	Frame(t tile.Index) uint8
	SetFrame(t tile.Index, f uint8)
	Animation(t tile.Index) (frames uint8, loop bool)
	XY(x, y uint32) tile.Index
	IsValidXY(x, y uint32) bool
	TileX(t tile.Index) uint32
	TileY(t tile.Index) uint32
}

// Engine wraps a single gopher-lua VM running animation scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir/animation.
// A missing directory leaves the engine empty; all categories then fall back
// to the built-in frame animator.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if scriptsDir != "" {
		if err := e.loadDir(filepath.Join(scriptsDir, "animation")); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load animation scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// Bind installs the global `tiles` table that scripts use to read and change
// tile state.
func (e *Engine) Bind(api TileAPI) {
	tbl := e.vm.NewTable()
	e.vm.SetFuncs(tbl, map[string]lua.LGFunction{
		"add": func(L *lua.LState) int {
			L.Push(lua.LBool(api.AddAnimated(checkTile(L, 1))))
			return 1
		},
		"remove": func(L *lua.LState) int {
			api.RemoveAnimated(checkTile(L, 1))
			return 0
		},
		"animated": func(L *lua.LState) int {
			L.Push(lua.LBool(api.IsAnimated(checkTile(L, 1))))
			return 1
		},
		"valid": func(L *lua.LState) int {
			L.Push(lua.LBool(api.IsValid(checkTile(L, 1))))
			return 1
		},
		"category": func(L *lua.LState) int {
			L.Push(lua.LString(api.Category(checkTile(L, 1)).String()))
			return 1
		},
		"frame": func(L *lua.LState) int {
			L.Push(lua.LNumber(api.Frame(checkTile(L, 1))))
			return 1
		},
		"set_frame": func(L *lua.LState) int {
			t := checkTile(L, 1)
			f := L.CheckInt(2)
			if f < 0 || f > 255 {
				L.ArgError(2, "frame out of range")
				return 0
			}
			api.SetFrame(t, uint8(f))
			return 0
		},
		"animation": func(L *lua.LState) int {
			frames, loop := api.Animation(checkTile(L, 1))
			L.Push(lua.LNumber(frames))
			L.Push(lua.LBool(loop))
			return 2
		},
		"x": func(L *lua.LState) int {
			L.Push(lua.LNumber(api.TileX(checkTile(L, 1))))
			return 1
		},
		"y": func(L *lua.LState) int {
			L.Push(lua.LNumber(api.TileY(checkTile(L, 1))))
			return 1
		},
		// xy returns nil for coordinates off the map, so a neighbour lookup
		// past an edge never lands on a tile of another row.
		"xy": func(L *lua.LState) int {
			x := L.CheckInt64(1)
			y := L.CheckInt64(2)
			if x < 0 || y < 0 || x > int64(^uint32(0)) || y > int64(^uint32(0)) ||
				!api.IsValidXY(uint32(x), uint32(y)) {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(api.XY(uint32(x), uint32(y))))
			return 1
		},
	})
	e.vm.SetGlobal("tiles", tbl)
}

func checkTile(L *lua.LState, n int) tile.Index {
	v := L.CheckInt64(n)
	if v < 0 || v > int64(^uint32(0)) {
		L.ArgError(n, "tile index out of range")
		return 0
	}
	return tile.Index(v)
}

// HasFunc reports whether a global Lua function with the given name exists.
func (e *Engine) HasFunc(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Animate calls the Lua function name(tile, tick). It returns the function's
// boolean result; false when the function is missing, errors or returns a
// non-true value, so the caller can fall back to the default animation.
func (e *Engine) Animate(name string, t tile.Index, tick uint64) bool {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t), lua.LNumber(tick)); err != nil {
		e.log.Error("lua animation error",
			zap.String("func", name),
			zap.Uint32("tile", uint32(t)),
			zap.Error(err))
		return false
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret == lua.LTrue
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
