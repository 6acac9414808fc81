package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tilesim/server/internal/tile"
)

// AnimatedTileRepo stores a snapshot of the animated-tile registry. Registry
// order is kept in the position column so a restore replays tiles in the
// order they were animated.
type AnimatedTileRepo struct {
	db *DB
}

func NewAnimatedTileRepo(db *DB) *AnimatedTileRepo {
	return &AnimatedTileRepo{db: db}
}

// Save replaces the stored snapshot with tiles in a single transaction.
func (r *AnimatedTileRepo) Save(ctx context.Context, tiles []tile.Index) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("animated tiles begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM animated_tiles`); err != nil {
		return fmt.Errorf("animated tiles clear: %w", err)
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"animated_tiles"},
		[]string{"position", "tile"},
		pgx.CopyFromSlice(len(tiles), func(i int) ([]any, error) {
			return []any{int32(i), int64(tiles[i])}, nil
		}),
	); err != nil {
		return fmt.Errorf("animated tiles copy: %w", err)
	}

	return tx.Commit(ctx)
}

// Load returns the stored snapshot in registry order.
func (r *AnimatedTileRepo) Load(ctx context.Context) ([]tile.Index, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tile FROM animated_tiles ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("animated tiles query: %w", err)
	}
	defer rows.Close()

	var result []tile.Index
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("animated tiles scan: %w", err)
		}
		result = append(result, tile.Index(v))
	}
	return result, rows.Err()
}
