package handler

import (
	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/scripting"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/world"
	"go.uber.org/zap"
)

// FrameAnimator is the built-in animation: step the tile's frame once per
// tick. Looping animations wrap; one-shot animations stop on their last frame
// and the tile leaves the animated set. A tile with fewer than two frames has
// nothing to animate and removes itself immediately.
type FrameAnimator struct {
	world *world.State
}

func NewFrameAnimator(ws *world.State) *FrameAnimator {
	return &FrameAnimator{world: ws}
}

func (a *FrameAnimator) AnimateTile(t tile.Index) {
	frames, loop := a.world.Animation(t)
	if frames <= 1 {
		a.world.RemoveAnimated(t)
		return
	}

	next := int(a.world.Frame(t)) + 1
	if next >= int(frames) {
		if !loop {
			a.world.RemoveAnimated(t)
			return
		}
		next = 0
	}
	a.world.SetFrame(t, uint8(next))
}

// ScriptAnimator hands a tile to a Lua function and falls back to another
// handler when the script is absent or does not return true. A script that
// took the tile out of the animated set has finished with it, whatever it
// returned.
type ScriptAnimator struct {
	engine   *scripting.Engine
	fn       string
	world    *world.State
	fallback animtile.Handler
}

func newScriptAnimator(deps *Deps, fn string, fallback animtile.Handler) animtile.Handler {
	if deps.Scripting == nil {
		return fallback
	}
	if !deps.Scripting.HasFunc(fn) && deps.Log != nil {
		deps.Log.Debug("no lua animation, using frame animator", zap.String("func", fn))
	}
	return &ScriptAnimator{
		engine:   deps.Scripting,
		fn:       fn,
		world:    deps.World,
		fallback: fallback,
	}
}

func (a *ScriptAnimator) AnimateTile(t tile.Index) {
	if a.engine.Animate(a.fn, t, a.world.Tick()) || !a.world.IsAnimated(t) {
		return
	}
	a.fallback.AnimateTile(t)
}
