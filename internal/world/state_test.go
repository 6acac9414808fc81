package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tilesim/server/internal/core/event"
	"github.com/tilesim/server/internal/tile"
)

func newTestState() *State {
	m := tile.NewMap(4, 4)
	m.SetCategory(m.XY(0, 0), tile.House)
	m.SetCategory(m.XY(1, 0), tile.Station)
	m.SetCategory(m.XY(2, 0), tile.Water)
	return NewState(m, event.NewBus())
}

func TestRestoreReplaysInOrder(t *testing.T) {
	s := newTestState()
	s.Animated().Add(s.XY(1, 0))

	skipped := s.Restore([]tile.Index{s.XY(0, 0), s.XY(2, 0), tile.Index(99), s.XY(1, 0)})

	assert.Equal(t, []tile.Index{s.XY(0, 0), s.XY(1, 0)}, s.Animated().Tiles())
	assert.Equal(t, []tile.Index{s.XY(2, 0), tile.Index(99)}, skipped)
}

func TestRestoreEmitsDirtyEvents(t *testing.T) {
	s := newTestState()
	s.Restore([]tile.Index{s.XY(0, 0)})
	assert.Equal(t, 1, s.Bus().Pending())
}

func TestAddAnimatedRejectsNonAnimatable(t *testing.T) {
	s := newTestState()

	assert.True(t, s.AddAnimated(s.XY(0, 0)))
	assert.False(t, s.AddAnimated(s.XY(2, 0)))
	assert.False(t, s.AddAnimated(tile.Index(500)))
	assert.True(t, s.IsAnimated(s.XY(0, 0)))
	assert.Equal(t, 1, s.Animated().Len())

	s.RemoveAnimated(s.XY(0, 0))
	assert.False(t, s.IsAnimated(s.XY(0, 0)))
}

func TestAdvanceTick(t *testing.T) {
	s := newTestState()
	assert.Equal(t, uint64(0), s.Tick())
	assert.Equal(t, uint64(1), s.AdvanceTick())
	assert.Equal(t, uint64(2), s.AdvanceTick())
	assert.Equal(t, uint64(2), s.Tick())
}

func TestAnimatable(t *testing.T) {
	for _, c := range []tile.Category{tile.House, tile.Station, tile.Industry, tile.Object} {
		assert.True(t, Animatable(c), c.String())
	}
	for _, c := range []tile.Category{tile.Clear, tile.Water, tile.Void, tile.Road} {
		assert.False(t, Animatable(c), c.String())
	}
}
