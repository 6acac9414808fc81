package system

import (
	"time"

	"github.com/tilesim/server/internal/core/event"
	coresys "github.com/tilesim/server/internal/core/system"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/viewport"
	"go.uber.org/zap"
)

// RedrawSystem delivers this tick's events and collects the tiles the
// renderer must refresh. Phase 4 (Output).
type RedrawSystem struct {
	bus      *event.Bus
	dirty    *viewport.DirtySet
	log      *zap.Logger
	frame    []tile.Index
	lastPass event.AnimationPassCompleted
	redrawn  uint64
}

func NewRedrawSystem(bus *event.Bus, dirty *viewport.DirtySet, log *zap.Logger) *RedrawSystem {
	s := &RedrawSystem{bus: bus, dirty: dirty, log: log}
	event.Subscribe(bus, func(e event.AnimationPassCompleted) { s.lastPass = e })
	return s
}

func (s *RedrawSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RedrawSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()

	s.frame = s.dirty.Drain()
	s.redrawn += uint64(len(s.frame))
	if len(s.frame) > 0 {
		if ce := s.log.Check(zap.DebugLevel, "tiles invalidated"); ce != nil {
			ce.Write(zap.Uint64("tick", s.lastPass.Tick), zap.Int("tiles", len(s.frame)))
		}
	}
}

// Frame returns the tiles invalidated during the last Update, in index order.
func (s *RedrawSystem) Frame() []tile.Index { return s.frame }

// LastPass returns the most recent animation pass summary.
func (s *RedrawSystem) LastPass() event.AnimationPassCompleted { return s.lastPass }

// Redrawn returns the total number of tile invalidations delivered.
func (s *RedrawSystem) Redrawn() uint64 { return s.redrawn }
