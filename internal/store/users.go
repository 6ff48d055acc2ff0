package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/j-cqln/reverb/shared/go/models"
)

// CreateUser registers a new user and returns its id.
func (s *Store) CreateUser(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var userID int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, hash).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return userID, nil
}

// Authenticate validates credentials and returns the user id.
func (s *Store) Authenticate(ctx context.Context, username, password string) (int64, error) {
	var (
		userID int64
		hash   []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&userID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a comparison so unknown usernames cost the same as bad passwords.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return userID, nil
}

// VerifyPassword reports whether the password matches the user's stored hash.
func (s *Store) VerifyPassword(ctx context.Context, userID int64, password string) (bool, error) {
	var hash []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT password_hash
		FROM users
		WHERE id = $1
	`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil, nil
}

// UpdatePassword rehashes and stores a new password for the user. Checking
// the old password first is the caller's job; see VerifyPassword.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2
	`, hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateProfile overwrites the user's bio and favorite genre.
func (s *Store) UpdateProfile(ctx context.Context, userID int64, bio, favoriteGenre string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET bio = $1, favorite_genre = $2
		WHERE id = $3
	`, bio, favoriteGenre, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, bio, favorite_genre, favorite_track, favorite_album
		FROM users
		WHERE id = $1
	`, userID))
}

// UserByUsername returns the user with the given handle.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, bio, favorite_genre, favorite_track, favorite_album
		FROM users
		WHERE username = $1
	`, username))
}

// SearchUsers returns users whose handle contains the query.
func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, bio, favorite_genre, favorite_track, favorite_album
		FROM users
		WHERE username ILIKE $1
		ORDER BY username ASC
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Bio,
			&u.FavoriteGenre, &u.FavoriteTrack, &u.FavoriteAlbum); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// RandomUser picks a uniformly random user other than the given one. It
// returns nil without error when no other user exists.
func (s *Store) RandomUser(ctx context.Context, excludingID int64) (*models.User, error) {
	user, err := s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, bio, favorite_genre, favorite_track, favorite_album
		FROM users
		WHERE id <> $1
		ORDER BY random()
		LIMIT 1
	`, excludingID))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// SetFavorite stores the user's favorite item of the given kind. A nil
// contentID clears it. The toggle decision belongs to the caller; the store
// performs an unconditional set.
func (s *Store) SetFavorite(ctx context.Context, userID int64, kind models.Kind, contentID *string) error {
	column, err := favoriteColumn(kind)
	if err != nil {
		return err
	}

	value := ""
	if contentID != nil {
		value = *contentID
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $1 WHERE id = $2`, column),
		value, userID)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Favorite returns the user's favorite item id of the given kind, or an
// empty string when none is set.
func (s *Store) Favorite(ctx context.Context, userID int64, kind models.Kind) (string, error) {
	column, err := favoriteColumn(kind)
	if err != nil {
		return "", err
	}

	var contentID string
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, column),
		userID).Scan(&contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get favorite: %w", err)
	}

	return contentID, nil
}

func favoriteColumn(kind models.Kind) (string, error) {
	switch kind {
	case models.KindTrack:
		return "favorite_track", nil
	case models.KindAlbum:
		return "favorite_album", nil
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Bio,
		&u.FavoriteGenre, &u.FavoriteTrack, &u.FavoriteAlbum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
