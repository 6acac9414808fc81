package event

import "github.com/tilesim/server/internal/tile"

// TileDirty is emitted when a tile enters or leaves the animated-tile
// registry and must be redrawn.
type TileDirty struct {
	Tile tile.Index
}

// AnimationPassCompleted is emitted once per tick after the dispatch pass.
type AnimationPassCompleted struct {
	Tick      uint64
	Visited   int
	Remaining int
}
