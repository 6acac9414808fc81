package animtile

import (
	"fmt"
	"time"

	"github.com/tilesim/server/internal/tile"
)

// Handler animates a single tile. Handlers may Add to or Remove from the
// registry while a pass is running, but at most one entry may be removed per
// call (see Dispatcher.Run).
type Handler interface {
	AnimateTile(t tile.Index)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(t tile.Index)

func (f HandlerFunc) AnimateTile(t tile.Index) { f(t) }

// Handlers maps the four animatable categories to their handler.
type Handlers struct {
	Town     Handler // tile.House
	Station  Handler // tile.Station
	Industry Handler // tile.Industry
	Object   Handler // tile.Object
}

// Classifier reports the category of a tile. *tile.Map satisfies it.
type Classifier interface {
	Category(t tile.Index) tile.Category
}

// PassObserver receives timing and volume information about dispatch passes.
type PassObserver interface {
	PassStarted(size int)
	TileAnimated(c tile.Category)
	PassFinished(visited int, elapsed time.Duration)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver attaches a PassObserver to the dispatcher.
func WithObserver(o PassObserver) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher runs the per-frame animation pass over a Registry.
type Dispatcher struct {
	reg        *Registry
	classifier Classifier
	handlers   Handlers
	observer   PassObserver
}

// NewDispatcher wires a registry to its classifier and category handlers.
// Every handler must be non-nil.
func NewDispatcher(reg *Registry, classifier Classifier, handlers Handlers, opts ...Option) *Dispatcher {
	if handlers.Town == nil || handlers.Station == nil || handlers.Industry == nil || handlers.Object == nil {
		panic("animtile: all four category handlers are required")
	}
	d := &Dispatcher{
		reg:        reg,
		classifier: classifier,
		handlers:   handlers,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run animates every tile in the registry once and returns the number of
// handler calls made. Called exactly once per simulation tick.
//
// The cursor is a slot in the live registry, not a snapshot. After each
// handler call the slot is re-read: if it still holds the tile just animated
// the cursor advances, otherwise that entry was removed, the tail shifted left
// and the slot already holds the next tile to process. Tiles added during the
// pass are appended and visited before it ends.
//
// NOTE: this still breaks if a single handler call removes more than one
// entry; the pass may then skip or repeat a tile. No handler does that.
//
// A tile whose category is not animatable means the registry and the map have
// desynchronised; Run panics.
func (d *Dispatcher) Run() int {
	var start time.Time
	if d.observer != nil {
		start = time.Now()
		d.observer.PassStarted(d.reg.Len())
	}

	visited := 0
	cursor := 0
	for cursor < len(d.reg.tiles) {
		curr := d.reg.tiles[cursor]
		cat := d.classifier.Category(curr)
		switch cat {
		case tile.House:
			d.handlers.Town.AnimateTile(curr)
		case tile.Station:
			d.handlers.Station.AnimateTile(curr)
		case tile.Industry:
			d.handlers.Industry.AnimateTile(curr)
		case tile.Object:
			d.handlers.Object.AnimateTile(curr)
		default:
			panic(fmt.Sprintf("animtile: tile %d has non-animatable category %s", curr, cat))
		}
		visited++
		if d.observer != nil {
			d.observer.TileAnimated(cat)
		}

		if cursor < len(d.reg.tiles) && d.reg.tiles[cursor] == curr {
			cursor++
		}
	}

	if d.observer != nil {
		d.observer.PassFinished(visited, time.Since(start))
	}
	return visited
}
