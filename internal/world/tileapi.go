package world

import "github.com/tilesim/server/internal/tile"

// The methods below expose the map and registry to animation scripts.

// AddAnimated flags t for animation. Tiles without an animation handler are
// refused so the dispatch pass cannot meet them.
func (s *State) AddAnimated(t tile.Index) bool {
	if !s.tiles.IsValid(t) || !Animatable(s.tiles.Category(t)) {
		return false
	}
	s.animated.Add(t)
	return true
}

func (s *State) RemoveAnimated(t tile.Index)         { s.animated.Remove(t) }
func (s *State) IsAnimated(t tile.Index) bool        { return s.animated.Contains(t) }
func (s *State) IsValid(t tile.Index) bool           { return s.tiles.IsValid(t) }
func (s *State) Category(t tile.Index) tile.Category { return s.tiles.Category(t) }
func (s *State) Frame(t tile.Index) uint8            { return s.tiles.Frame(t) }
func (s *State) SetFrame(t tile.Index, f uint8)      { s.tiles.SetFrame(t, f) }

func (s *State) Animation(t tile.Index) (frames uint8, loop bool) {
	return s.tiles.Animation(t)
}

func (s *State) XY(x, y uint32) tile.Index  { return s.tiles.XY(x, y) }
func (s *State) IsValidXY(x, y uint32) bool { return s.tiles.IsValidXY(x, y) }
func (s *State) TileX(t tile.Index) uint32  { return s.tiles.TileX(t) }
func (s *State) TileY(t tile.Index) uint32  { return s.tiles.TileY(t) }
