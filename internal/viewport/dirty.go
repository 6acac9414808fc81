package viewport

import (
	"sort"

	"github.com/tilesim/server/internal/core/event"
	"github.com/tilesim/server/internal/tile"
)

// Notifier turns dirty marks into TileDirty events on the bus. It satisfies
// animtile.Invalidator.
type Notifier struct {
	bus *event.Bus
}

func NewNotifier(bus *event.Bus) *Notifier {
	return &Notifier{bus: bus}
}

func (n *Notifier) MarkTileDirty(t tile.Index) {
	event.Emit(n.bus, event.TileDirty{Tile: t})
}

// DirtySet collects the tiles that must be redrawn, without duplicates.
// Accessed only from the simulation goroutine.
type DirtySet struct {
	tiles map[tile.Index]struct{}
}

// NewDirtySet creates a set subscribed to TileDirty events on bus.
func NewDirtySet(bus *event.Bus) *DirtySet {
	d := &DirtySet{tiles: make(map[tile.Index]struct{}, 64)}
	event.Subscribe(bus, func(e event.TileDirty) {
		d.tiles[e.Tile] = struct{}{}
	})
	return d
}

func (d *DirtySet) Len() int { return len(d.tiles) }

// Drain returns the dirty tiles in index order and empties the set.
func (d *DirtySet) Drain() []tile.Index {
	out := make([]tile.Index, 0, len(d.tiles))
	for t := range d.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	clear(d.tiles)
	return out
}
