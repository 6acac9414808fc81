package world

import (
	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/core/event"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/viewport"
)

// State owns everything one running simulation needs: the map, the
// animated-tile registry and the event bus. Accessed only from the game loop
// goroutine, no locks needed.
type State struct {
	tiles    *tile.Map
	animated *animtile.Registry
	bus      *event.Bus
	tick     uint64
}

// NewState builds a simulation context around m. Dirty notifications from the
// registry are emitted on bus.
func NewState(m *tile.Map, bus *event.Bus) *State {
	return &State{
		tiles:    m,
		animated: animtile.NewRegistry(viewport.NewNotifier(bus)),
		bus:      bus,
	}
}

func (s *State) Map() *tile.Map               { return s.tiles }
func (s *State) Animated() *animtile.Registry { return s.animated }
func (s *State) Bus() *event.Bus              { return s.bus }
func (s *State) Tick() uint64                 { return s.tick }

// AdvanceTick moves to the next simulation tick and returns its number.
func (s *State) AdvanceTick() uint64 {
	s.tick++
	return s.tick
}

// Restore resets the registry and replays tiles into it in order. Tiles that
// are off the map or no longer have an animatable category are skipped and
// returned, so the dispatch pass never sees them.
func (s *State) Restore(tiles []tile.Index) (skipped []tile.Index) {
	s.animated.Reset()
	for _, t := range tiles {
		if !s.tiles.IsValid(t) || !Animatable(s.tiles.Category(t)) {
			skipped = append(skipped, t)
			continue
		}
		s.animated.Add(t)
	}
	return skipped
}

// Animatable reports whether tiles of category c have an animation handler.
func Animatable(c tile.Category) bool {
	switch c {
	case tile.House, tile.Station, tile.Industry, tile.Object:
		return true
	}
	return false
}
