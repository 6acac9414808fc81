package handler

import (
	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/scripting"
	"github.com/tilesim/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into the animation handlers.
type Deps struct {
	World     *world.State
	Scripting *scripting.Engine // nil = built-in animation only
	Log       *zap.Logger
}

// Lua entry points, one per animated category.
const (
	FuncTown     = "animate_house"
	FuncStation  = "animate_station"
	FuncIndustry = "animate_industry"
	FuncObject   = "animate_object"
)

// NewHandlers builds the per-category handler table for the dispatcher.
func NewHandlers(deps *Deps) animtile.Handlers {
	frames := &FrameAnimator{world: deps.World}
	return animtile.Handlers{
		Town:     newScriptAnimator(deps, FuncTown, frames),
		Station:  newScriptAnimator(deps, FuncStation, frames),
		Industry: newScriptAnimator(deps, FuncIndustry, frames),
		Object:   newScriptAnimator(deps, FuncObject, frames),
	}
}
