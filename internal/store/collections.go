package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/j-cqln/reverb/shared/go/models"
)

var (
	// ErrCollectionNotFound indicates the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionItemNotFound indicates the item is not in the collection.
	ErrCollectionItemNotFound = errors.New("item not found in collection")
)

// ImageLookup resolves the display image of an external catalog item. The
// store calls it while re-deriving a collection's cover image; the catalog
// client supplies the implementation.
type ImageLookup func(ctx context.Context, kind models.Kind, spotifyID string) (string, error)

// CreateCollection adds a collection and returns its id.
func (s *Store) CreateCollection(ctx context.Context, userID int64, name, description, image string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("collection name is required")
	}

	var collectionID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO collections (user_id, name, description, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, name, description, image).Scan(&collectionID)
	if err != nil {
		return 0, fmt.Errorf("insert collection: %w", err)
	}

	return collectionID, nil
}

// AddToCollection resolves the catalog reference for the item, inserts the
// membership, and, when the item becomes the collection's first member, sets
// the collection image to the supplied item image. The caller provides the
// image from its own catalog lookup. The whole sequence is one transaction.
func (s *Store) AddToCollection(ctx context.Context, collectionID int64, spotifyID string, kind models.Kind, image string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM collections WHERE id = $1)
	`, collectionID).Scan(&exists); err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return ErrCollectionNotFound
	}

	contentID, err := ensureContent(ctx, tx, spotifyID, kind)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO collections_content (collection_id, content_id)
		VALUES ($1, $2)
	`, collectionID, contentID); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	var members int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM collections_content
		WHERE collection_id = $1
	`, collectionID).Scan(&members); err != nil {
		return fmt.Errorf("count members: %w", err)
	}

	if members == 1 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE collections
			SET image = $1
			WHERE id = $2
		`, image, collectionID); err != nil {
			return fmt.Errorf("update collection image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// RemoveFromCollection deletes the membership of the item identified by
// (kind, spotifyID). When the removed item was the collection's first member,
// the cover image is re-derived from the new first member via lookupImage;
// when no members remain the previous image is retained. The sequence is one
// transaction and rolls back fully on failure.
func (s *Store) RemoveFromCollection(ctx context.Context, collectionID int64, kind models.Kind, spotifyID string, lookupImage ImageLookup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var contentID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM content
		WHERE spotify_type = $1 AND spotify_id = $2
	`, kind, spotifyID).Scan(&contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCollectionItemNotFound
		}
		return fmt.Errorf("lookup content: %w", err)
	}

	// Membership order is insertion order, so the lowest row id is the
	// collection's current first member.
	var firstContentID int64
	err = tx.QueryRowContext(ctx, `
		SELECT content_id
		FROM collections_content
		WHERE collection_id = $1
		ORDER BY id ASC
		LIMIT 1
	`, collectionID).Scan(&firstContentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCollectionItemNotFound
		}
		return fmt.Errorf("lookup first member: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM collections_content
		WHERE collection_id = $1 AND content_id = $2
	`, collectionID, contentID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCollectionItemNotFound
	}

	if contentID == firstContentID {
		var nextID string
		var nextKind models.Kind
		err = tx.QueryRowContext(ctx, `
			SELECT c.spotify_id, c.spotify_type
			FROM content c
			JOIN collections_content cc ON cc.content_id = c.id
			WHERE cc.collection_id = $1
			ORDER BY cc.id ASC
			LIMIT 1
		`, collectionID).Scan(&nextID, &nextKind)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Collection is now empty; the previous image stays.
		case err != nil:
			return fmt.Errorf("lookup new first member: %w", err)
		default:
			image, err := lookupImage(ctx, nextKind, nextID)
			if err != nil {
				return fmt.Errorf("lookup image: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE collections
				SET image = $1
				WHERE id = $2
			`, image, collectionID); err != nil {
				return fmt.Errorf("update collection image: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// CollectionsByUser returns the user's collections.
func (s *Store) CollectionsByUser(ctx context.Context, userID int64) ([]models.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, image
		FROM collections
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Image); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// SearchCollections returns collections whose name contains the query, each
// paired with its owner's handle.
func (s *Store) SearchCollections(ctx context.Context, query string) ([]models.Collection, []string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.name, c.description, c.image, u.username
		FROM collections c
		JOIN users u ON u.id = c.user_id
		WHERE c.name ILIKE $1
		ORDER BY c.id ASC
	`, "%"+query+"%")
	if err != nil {
		return nil, nil, fmt.Errorf("search collections: %w", err)
	}
	defer rows.Close()

	var (
		collections []models.Collection
		owners      []string
	)
	for rows.Next() {
		var c models.Collection
		var owner string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Image, &owner); err != nil {
			return nil, nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, owners, nil
}

// CollectionContent returns the external ids of the collection's members
// partitioned by kind, in insertion order within each kind.
func (s *Store) CollectionContent(ctx context.Context, collectionID int64) (models.ContentIDs, error) {
	var ids models.ContentIDs

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.spotify_id, c.spotify_type
		FROM content c
		JOIN collections_content cc ON cc.content_id = c.id
		WHERE cc.collection_id = $1
		ORDER BY cc.id ASC
	`, collectionID)
	if err != nil {
		return ids, fmt.Errorf("list collection content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.ContentRef
		if err := rows.Scan(&ref.ID, &ref.SpotifyID, &ref.Kind); err != nil {
			return ids, fmt.Errorf("scan collection content: %w", err)
		}
		switch ref.Kind {
		case models.KindTrack:
			ids.Tracks = append(ids.Tracks, ref.SpotifyID)
		case models.KindAlbum:
			ids.Albums = append(ids.Albums, ref.SpotifyID)
		}
	}
	if err := rows.Err(); err != nil {
		return ids, fmt.Errorf("iterate collection content: %w", err)
	}

	return ids, nil
}

// CollectionByID returns the collection with the given id.
func (s *Store) CollectionByID(ctx context.Context, collectionID int64) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, image
		FROM collections
		WHERE id = $1
	`, collectionID).Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &c, nil
}

// DeleteCollection removes the collection's membership rows and then the
// collection itself in one transaction, so a failure partway leaves both in
// place.
func (s *Store) DeleteCollection(ctx context.Context, collectionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM collections_content
		WHERE collection_id = $1
	`, collectionID); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM collections
		WHERE id = $1
	`, collectionID)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCollectionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// RandomCollection picks a uniformly random collection. It returns nil
// without error when none exist.
func (s *Store) RandomCollection(ctx context.Context) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, image
		FROM collections
		ORDER BY random()
		LIMIT 1
	`).Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("random collection: %w", err)
	}
	return &c, nil
}
