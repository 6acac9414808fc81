package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tilesim/server/internal/animtile"
	"github.com/tilesim/server/internal/core/event"
	"github.com/tilesim/server/internal/scripting"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/world"
)

func newTestWorld() *world.State {
	m := tile.NewMap(8, 8)
	return world.NewState(m, event.NewBus())
}

func place(ws *world.State, x, y uint32, c tile.Category, frames uint8, loop bool) tile.Index {
	t := ws.XY(x, y)
	ws.Map().SetCategory(t, c)
	ws.Map().SetAnimation(t, frames, loop)
	ws.Animated().Add(t)
	return t
}

func TestFrameAnimatorLoops(t *testing.T) {
	ws := newTestWorld()
	a := NewFrameAnimator(ws)
	light := place(ws, 1, 1, tile.House, 3, true)

	var seen []uint8
	for i := 0; i < 5; i++ {
		a.AnimateTile(light)
		seen = append(seen, ws.Frame(light))
	}
	assert.Equal(t, []uint8{1, 2, 0, 1, 2}, seen)
	assert.True(t, ws.IsAnimated(light))
}

func TestFrameAnimatorOneShotStops(t *testing.T) {
	ws := newTestWorld()
	a := NewFrameAnimator(ws)
	door := place(ws, 2, 2, tile.Station, 3, false)

	a.AnimateTile(door)
	a.AnimateTile(door)
	assert.Equal(t, uint8(2), ws.Frame(door))
	assert.True(t, ws.IsAnimated(door))

	a.AnimateTile(door)
	assert.Equal(t, uint8(2), ws.Frame(door), "stays on the last frame")
	assert.False(t, ws.IsAnimated(door))
}

func TestFrameAnimatorRemovesStaticTile(t *testing.T) {
	ws := newTestWorld()
	a := NewFrameAnimator(ws)
	statue := place(ws, 3, 3, tile.Object, 1, true)

	a.AnimateTile(statue)
	assert.False(t, ws.IsAnimated(statue))
}

func TestHandlersWithoutScripting(t *testing.T) {
	ws := newTestWorld()
	h := NewHandlers(&Deps{World: ws, Log: zap.NewNop()})

	_, isFrame := h.Town.(*FrameAnimator)
	assert.True(t, isFrame)
}

// A full pass through the dispatcher: one-shot tiles drop out of the registry
// during the pass without disturbing the others.
func TestPassWithFrameAnimators(t *testing.T) {
	ws := newTestWorld()
	smoke := place(ws, 0, 0, tile.Industry, 4, true)
	gate := place(ws, 1, 0, tile.Station, 2, false)
	fountain := place(ws, 2, 0, tile.Object, 2, true)

	d := animtile.NewDispatcher(ws.Animated(), ws.Map(), NewHandlers(&Deps{World: ws}))

	assert.Equal(t, 3, d.Run())
	assert.Equal(t, []tile.Index{smoke, gate, fountain}, ws.Animated().Tiles())

	assert.Equal(t, 3, d.Run(), "gate removes itself on its last frame but was still visited")
	assert.Equal(t, []tile.Index{smoke, fountain}, ws.Animated().Tiles())
	assert.Equal(t, uint8(2), ws.Frame(smoke))
	assert.Equal(t, uint8(0), ws.Frame(fountain))

	assert.Equal(t, 2, d.Run())
}

func TestPassWithScripts(t *testing.T) {
	ws := newTestWorld()
	engine, err := scripting.NewEngine("", zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()
	engine.Bind(ws)
	require.NoError(t, engine.LoadString(`
-- a house that spreads its animation to the house on its right, then stops
function animate_house(t, tick)
  local right = tiles.xy(tiles.x(t) + 1, tiles.y(t))
  if right and tiles.category(right) == "house" then
    tiles.add(right)
  end
  tiles.remove(t)
  return true
end

-- stations defer to the built-in animator on even ticks
function animate_station(t, tick)
  return tick % 2 == 1
end
`))

	h1 := place(ws, 0, 4, tile.House, 0, false)
	ws.Map().SetCategory(ws.XY(1, 4), tile.House)
	ws.Map().SetCategory(ws.XY(2, 4), tile.House)
	st := place(ws, 5, 5, tile.Station, 4, true)

	deps := &Deps{World: ws, Scripting: engine, Log: zap.NewNop()}
	d := animtile.NewDispatcher(ws.Animated(), ws.Map(), NewHandlers(deps))

	// Tick 1: h1 adds (1,4) and removes itself; (1,4) is visited in the same
	// pass, adds (2,4) and removes itself; (2,4) likewise.
	ws.AdvanceTick()
	visited := d.Run()
	assert.Equal(t, 4, visited)
	assert.False(t, ws.IsAnimated(h1))
	assert.Equal(t, []tile.Index{st}, ws.Animated().Tiles())
	assert.Equal(t, uint8(0), ws.Frame(st), "odd tick handled by script")

	ws.AdvanceTick()
	d.Run()
	assert.Equal(t, uint8(1), ws.Frame(st), "even tick falls back to frames")
}

// The shipped house script spreads to the house on its right every 64 ticks.
// A house on the right edge has no neighbour; the first house of the next row
// must stay unanimated.
func TestHouseScriptStopsAtMapEdge(t *testing.T) {
	ws := newTestWorld()
	engine, err := scripting.NewEngine("../../scripts", zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()
	engine.Bind(ws)
	require.True(t, engine.HasFunc(FuncTown))

	mid := place(ws, 3, 0, tile.House, 2, true)
	edge := place(ws, 7, 0, tile.House, 2, true)
	right := ws.XY(4, 0)
	nextRow := ws.XY(0, 1)
	for _, n := range []tile.Index{right, nextRow} {
		ws.Map().SetCategory(n, tile.House)
		ws.Map().SetAnimation(n, 2, true)
	}

	deps := &Deps{World: ws, Scripting: engine, Log: zap.NewNop()}
	d := animtile.NewDispatcher(ws.Animated(), ws.Map(), NewHandlers(deps))

	for ws.Tick() < 64 {
		ws.AdvanceTick()
	}
	assert.Equal(t, 3, d.Run())
	assert.Equal(t, []tile.Index{mid, edge, right}, ws.Animated().Tiles())
	assert.False(t, ws.IsAnimated(nextRow))
}

func TestScriptRemovalSkipsFallback(t *testing.T) {
	ws := newTestWorld()
	engine, err := scripting.NewEngine("", zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()
	engine.Bind(ws)
	require.NoError(t, engine.LoadString(`
function animate_industry(t, tick)
  tiles.remove(t)
  return false
end
function animate_object(t, tick)
  tiles.remove(t)
  error("broken")
end
function animate_station(t, tick)
  return false
end
`))

	mill := place(ws, 0, 0, tile.Industry, 4, true)
	statue := place(ws, 1, 0, tile.Object, 4, true)
	gate := place(ws, 2, 0, tile.Station, 4, true)

	h := NewHandlers(&Deps{World: ws, Scripting: engine, Log: zap.NewNop()})
	h.Industry.AnimateTile(mill)
	h.Object.AnimateTile(statue)
	h.Station.AnimateTile(gate)

	assert.Equal(t, uint8(0), ws.Frame(mill), "removed by its script, not advanced")
	assert.Equal(t, uint8(0), ws.Frame(statue), "removed before the error, not advanced")
	assert.Equal(t, uint8(1), ws.Frame(gate), "still animated, falls back to frames")
	assert.Equal(t, []tile.Index{gate}, ws.Animated().Tiles())
}
