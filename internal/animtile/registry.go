package animtile

import "github.com/tilesim/server/internal/tile"

// Invalidator is notified whenever a tile enters or leaves the registry so the
// redraw layer can refresh that location.
type Invalidator interface {
	MarkTileDirty(t tile.Index)
}

// Registry is the ordered set of tiles that need a per-frame animation update.
// Entries keep insertion order; removal compacts without reordering, which the
// dispatch pass relies on. Not safe for concurrent use; owned by the
// simulation goroutine.
type Registry struct {
	tiles []tile.Index
	inv   Invalidator
}

// NewRegistry creates an empty registry. inv may be nil.
func NewRegistry(inv Invalidator) *Registry {
	return &Registry{
		tiles: make([]tile.Index, 0, 256),
		inv:   inv,
	}
}

// Add appends t if it is not already present. The tile is marked dirty either way.
func (r *Registry) Add(t tile.Index) {
	r.markDirty(t)
	if r.indexOf(t) < 0 {
		r.tiles = append(r.tiles, t)
	}
}

// Remove deletes t, shifting later entries one slot left. Absent tiles are a
// no-op and produce no dirty notification.
func (r *Registry) Remove(t tile.Index) {
	i := r.indexOf(t)
	if i < 0 {
		return
	}
	// The order of the remaining entries must stay the same, otherwise the
	// dispatch pass may miss a tile.
	copy(r.tiles[i:], r.tiles[i+1:])
	r.tiles = r.tiles[:len(r.tiles)-1]
	r.markDirty(t)
}

// Reset empties the registry without any notification. Used at simulation
// (re)initialisation only.
func (r *Registry) Reset() {
	r.tiles = r.tiles[:0]
}

func (r *Registry) Len() int    { return len(r.tiles) }
func (r *Registry) Empty() bool { return len(r.tiles) == 0 }

func (r *Registry) Contains(t tile.Index) bool { return r.indexOf(t) >= 0 }

// Tiles returns a copy of the entries in registry order.
func (r *Registry) Tiles() []tile.Index {
	out := make([]tile.Index, len(r.tiles))
	copy(out, r.tiles)
	return out
}

func (r *Registry) indexOf(t tile.Index) int {
	for i, v := range r.tiles {
		if v == t {
			return i
		}
	}
	return -1
}

func (r *Registry) markDirty(t tile.Index) {
	if r.inv != nil {
		r.inv.MarkTileDirty(t)
	}
}
