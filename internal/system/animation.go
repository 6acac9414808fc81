package system

import (
	"time"

	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/core/event"
	coresys "github.com/tilesim/server/internal/core/system"
	"github.com/tilesim/server/internal/world"
	"go.uber.org/zap"
)

// AnimationSystem runs the animated-tile dispatch pass once per tick.
// Phase 2 (Update).
type AnimationSystem struct {
	world      *world.State
	dispatcher *animtile.Dispatcher
	log        *zap.Logger
}

func NewAnimationSystem(ws *world.State, d *animtile.Dispatcher, log *zap.Logger) *AnimationSystem {
	return &AnimationSystem{world: ws, dispatcher: d, log: log}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AnimationSystem) Update(_ time.Duration) {
	tick := s.world.AdvanceTick()
	visited := s.dispatcher.Run()
	remaining := s.world.Animated().Len()

	event.Emit(s.world.Bus(), event.AnimationPassCompleted{
		Tick:      tick,
		Visited:   visited,
		Remaining: remaining,
	})
	if ce := s.log.Check(zap.DebugLevel, "animation pass"); ce != nil {
		ce.Write(zap.Uint64("tick", tick), zap.Int("visited", visited), zap.Int("remaining", remaining))
	}
}
