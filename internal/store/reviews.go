package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/j-cqln/reverb/shared/go/models"
)

// UpsertReview posts a review, overwriting the rating and text in place when
// the user has already reviewed the item. The unique constraint on
// (user_id, content_type, content_id) makes the upsert atomic.
func (s *Store) UpsertReview(ctx context.Context, userID int64, kind models.Kind, contentID string, rating int, text string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	if contentID == "" {
		return fmt.Errorf("content id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (user_id, content_type, content_id, rating, text)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, content_type, content_id)
		DO UPDATE SET rating = EXCLUDED.rating, text = EXCLUDED.text
	`, userID, kind, contentID, rating, text)
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	return nil
}

// ReviewsByUser returns the user's reviews with tracks before albums, plus
// the external ids partitioned by kind in the same relative order, so callers
// can zip the two positionally after a batch catalog lookup. Both statements
// run in one repeatable-read transaction so the records and the ids come
// from the same snapshot; a concurrent upsert or delete cannot desync them.
func (s *Store) ReviewsByUser(ctx context.Context, userID int64) ([]models.Review, models.ContentIDs, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("begin review listing: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, content_type, content_id, rating, text
		FROM reviews
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var tracks, albums []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Kind, &r.ContentID, &r.Rating, &r.Text); err != nil {
			return nil, models.ContentIDs{}, fmt.Errorf("scan review: %w", err)
		}
		if r.Kind == models.KindTrack {
			tracks = append(tracks, r)
		} else {
			albums = append(albums, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("iterate reviews: %w", err)
	}

	ids, err := reviewContentIDs(ctx, tx, userID)
	if err != nil {
		return nil, models.ContentIDs{}, err
	}

	if err := tx.Commit(); err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("commit review listing: %w", err)
	}
	tx = nil

	return append(tracks, albums...), ids, nil
}

// reviewContentIDs aggregates the reviewed external ids per kind, ordered by
// review row id to match the record ordering of ReviewsByUser.
func reviewContentIDs(ctx context.Context, tx *sql.Tx, userID int64) (models.ContentIDs, error) {
	var ids models.ContentIDs
	err := tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(array_agg(content_id ORDER BY id) FILTER (WHERE content_type = 'track'), '{}'),
			COALESCE(array_agg(content_id ORDER BY id) FILTER (WHERE content_type = 'album'), '{}')
		FROM reviews
		WHERE user_id = $1
	`, userID).Scan(pq.Array(&ids.Tracks), pq.Array(&ids.Albums))
	if err != nil {
		return ids, fmt.Errorf("aggregate review ids: %w", err)
	}
	return ids, nil
}

// ReviewsByContent returns every review of one external item.
func (s *Store) ReviewsByContent(ctx context.Context, kind models.Kind, contentID string) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content_type, content_id, rating, text
		FROM reviews
		WHERE content_type = $1 AND content_id = $2
		ORDER BY id ASC
	`, kind, contentID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Kind, &r.ContentID, &r.Rating, &r.Text); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// DeleteReview removes the user's review of the item. Deleting a review that
// does not exist is not an error, so repeated deletes are safe.
func (s *Store) DeleteReview(ctx context.Context, userID int64, contentID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reviews
		WHERE user_id = $1 AND content_id = $2
	`, userID, contentID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		s.log.Debug().Int64("user_id", userID).Str("content_id", contentID).
			Msg("no review to delete")
	}

	return nil
}

// ReviewCount returns the number of reviews the user has posted.
func (s *Store) ReviewCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM reviews
		WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// MostReviewed returns the external id of the most-reviewed item of the
// given kind, optionally restricted to one user's reviews. Ties break to the
// lowest external id so the result is deterministic. An empty string means
// no reviews exist for the kind.
func (s *Store) MostReviewed(ctx context.Context, kind models.Kind, userID *int64) (string, error) {
	query := `
		SELECT content_id
		FROM reviews
		WHERE content_type = $1`
	args := []any{kind}

	if userID != nil {
		query += ` AND user_id = $2`
		args = append(args, *userID)
	}

	query += `
		GROUP BY content_id
		ORDER BY COUNT(*) DESC, content_id ASC
		LIMIT 1`

	var contentID string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("most reviewed: %w", err)
	}

	return contentID, nil
}
