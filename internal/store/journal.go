package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/j-cqln/reverb/shared/go/models"
)

// UpsertJournalEntry posts a journal entry, overwriting the text and kind in
// place when the user already has an entry for the item. The unique
// constraint on (user_id, content_id) makes the upsert atomic.
func (s *Store) UpsertJournalEntry(ctx context.Context, userID int64, contentID, text string, kind models.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	if contentID == "" {
		return fmt.Errorf("content id is required")
	}
	if text == "" {
		return fmt.Errorf("entry text is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (user_id, content_id, content_type, text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, content_id)
		DO UPDATE SET text = EXCLUDED.text, content_type = EXCLUDED.content_type
	`, userID, contentID, kind, text)
	if err != nil {
		return fmt.Errorf("upsert journal entry: %w", err)
	}

	return nil
}

// JournalEntriesByUser returns the user's entries with tracks before albums,
// plus the external ids partitioned by kind in the same relative order; the
// same positional zip contract as ReviewsByUser. As there, both statements
// share one repeatable-read snapshot so concurrent writes cannot desync the
// two outputs.
func (s *Store) JournalEntriesByUser(ctx context.Context, userID int64) ([]models.JournalEntry, models.ContentIDs, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("begin journal listing: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, content_id, content_type, text
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var tracks, albums []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ContentID, &e.Kind, &e.Text); err != nil {
			return nil, models.ContentIDs{}, fmt.Errorf("scan journal entry: %w", err)
		}
		if e.Kind == models.KindTrack {
			tracks = append(tracks, e)
		} else {
			albums = append(albums, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("iterate journal entries: %w", err)
	}

	var ids models.ContentIDs
	err = tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(array_agg(content_id ORDER BY id) FILTER (WHERE content_type = 'track'), '{}'),
			COALESCE(array_agg(content_id ORDER BY id) FILTER (WHERE content_type = 'album'), '{}')
		FROM journal_entries
		WHERE user_id = $1
	`, userID).Scan(pq.Array(&ids.Tracks), pq.Array(&ids.Albums))
	if err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("aggregate journal ids: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.ContentIDs{}, fmt.Errorf("commit journal listing: %w", err)
	}
	tx = nil

	return append(tracks, albums...), ids, nil
}

// JournalEntriesByUserAndContent returns the user's entries for one item.
// The unique key allows at most one, but the result stays a slice to keep
// the caller's rendering loop simple.
func (s *Store) JournalEntriesByUserAndContent(ctx context.Context, userID int64, contentID string) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content_id, content_type, text
		FROM journal_entries
		WHERE user_id = $1 AND content_id = $2
		ORDER BY id ASC
	`, userID, contentID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ContentID, &e.Kind, &e.Text); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}

// DeleteJournalEntry removes the user's entry for the item. Deleting an
// entry that does not exist is not an error, so repeated deletes are safe.
func (s *Store) DeleteJournalEntry(ctx context.Context, userID int64, contentID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_entries
		WHERE user_id = $1 AND content_id = $2
	`, userID, contentID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		s.log.Debug().Int64("user_id", userID).Str("content_id", contentID).
			Msg("no journal entry to delete")
	}

	return nil
}
