package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/j-cqln/reverb/shared/go/models"
)

// EnsureContent returns the local id for an external catalog item, inserting
// a reference row the first time the item is seen. References are pure
// memoization keyed by the external id and are never updated or removed.
func (s *Store) EnsureContent(ctx context.Context, spotifyID string, kind models.Kind) (int64, error) {
	return ensureContent(ctx, s.db, spotifyID, kind)
}

// execer covers *sql.DB and *sql.Tx so reference rows can be created inside
// collection transactions.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func ensureContent(ctx context.Context, db execer, spotifyID string, kind models.Kind) (int64, error) {
	if spotifyID == "" {
		return 0, fmt.Errorf("external id is required")
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}

	var contentID int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO content (spotify_id, spotify_type)
		VALUES ($1, $2)
		ON CONFLICT (spotify_id) DO NOTHING
		RETURNING id
	`, spotifyID, kind).Scan(&contentID)
	if err == nil {
		return contentID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("insert content: %w", err)
	}

	// Conflict: the reference already exists, fetch its id.
	err = db.QueryRowContext(ctx, `
		SELECT id
		FROM content
		WHERE spotify_id = $1
	`, spotifyID).Scan(&contentID)
	if err != nil {
		return 0, fmt.Errorf("lookup content: %w", err)
	}

	return contentID, nil
}
