package system

import (
	"context"
	"slices"
	"time"

	coresys "github.com/tilesim/server/internal/core/system"
	"github.com/tilesim/server/internal/tile"
	"github.com/tilesim/server/internal/world"
	"go.uber.org/zap"
)

// SnapshotStore persists the animated-tile registry. *persist.AnimatedTileRepo
// implements it.
type SnapshotStore interface {
	Save(ctx context.Context, tiles []tile.Index) error
}

// PersistenceSystem periodically saves the animated-tile set so a restart can
// replay it. Phase 5 (Persist).
type PersistenceSystem struct {
	world     *world.State
	store     SnapshotStore
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
	dirty     bool
	lastSaved []tile.Index
}

func NewPersistenceSystem(ws *world.State, store SnapshotStore, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		store:    store,
		log:      log,
		interval: intervalTicks,
		dirty:    true,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.save(true)
}

// SaveNow writes the snapshot immediately, even if nothing changed since the
// last save. Called for graceful shutdown.
func (s *PersistenceSystem) SaveNow() error {
	return s.save(false)
}

// save skips the write when onlyChanged is set and the registry still matches
// the last stored snapshot.
func (s *PersistenceSystem) save(onlyChanged bool) error {
	tiles := s.world.Animated().Tiles()
	if onlyChanged && !s.dirty && slices.Equal(tiles, s.lastSaved) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Save(ctx, tiles); err != nil {
		s.log.Error("save animated tiles failed", zap.Int("tiles", len(tiles)), zap.Error(err))
		s.dirty = true
		return err
	}
	s.lastSaved = tiles
	s.dirty = false
	s.log.Debug("animated tiles saved", zap.Int("tiles", len(tiles)))
	return nil
}
