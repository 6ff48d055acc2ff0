package store

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so the store can bring an empty database
// up on boot without external migration tooling. The unique indexes back the
// "at most one" rules the application otherwise enforces by check-then-insert:
// one friendship row per unordered user pair, one review per (user, kind,
// item), one journal entry per (user, item).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		favorite_genre TEXT NOT NULL DEFAULT '',
		favorite_track TEXT NOT NULL DEFAULT '',
		favorite_album TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		id BIGSERIAL PRIMARY KEY,
		requester_id BIGINT NOT NULL REFERENCES users(id),
		requested_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS friendships_pair_idx
		ON friendships (LEAST(requester_id, requested_id), GREATEST(requester_id, requested_id))`,
	`CREATE TABLE IF NOT EXISTS content (
		id BIGSERIAL PRIMARY KEY,
		spotify_id TEXT NOT NULL UNIQUE,
		spotify_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS collections (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS collections_content (
		id BIGSERIAL PRIMARY KEY,
		collection_id BIGINT NOT NULL REFERENCES collections(id),
		content_id BIGINT NOT NULL REFERENCES content(id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		content_type TEXT NOT NULL,
		content_id TEXT NOT NULL,
		rating INT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		UNIQUE (user_id, content_type, content_id)
	)`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		content_id TEXT NOT NULL,
		content_type TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE (user_id, content_id)
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
