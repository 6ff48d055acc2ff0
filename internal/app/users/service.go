package users

import (
	"context"
	"errors"

	"github.com/j-cqln/reverb/shared/go/models"
)

// ErrWrongPassword signals a password change attempted with a bad current
// password.
var ErrWrongPassword = errors.New("current password does not match")

// Store defines persistence operations required for account workflows.
type Store interface {
	CreateUser(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	VerifyPassword(ctx context.Context, userID int64, password string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, password string) error
	UpdateProfile(ctx context.Context, userID int64, bio, favoriteGenre string) error
	UserByID(ctx context.Context, userID int64) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	RandomUser(ctx context.Context, excludingID int64) (*models.User, error)
	SetFavorite(ctx context.Context, userID int64, kind models.Kind, contentID *string) error
	Favorite(ctx context.Context, userID int64, kind models.Kind) (string, error)
}

// Sessions mints bearer tokens for authenticated users.
type Sessions interface {
	Issue(userID int64) (string, error)
}

// Service describes high level account operations used by HTTP handlers.
type Service interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, bio, favoriteGenre string) error
	ChangePassword(ctx context.Context, userID int64, current, updated string) error
	ToggleFavorite(ctx context.Context, userID int64, kind models.Kind, contentID string) (bool, error)
	Search(ctx context.Context, query string) ([]models.User, error)
	RandomUser(ctx context.Context, excludingID int64) (*models.User, error)
}

type service struct {
	store    Store
	sessions Sessions
}

// New constructs an account Service backed by the given store and session
// issuer.
func New(st Store, sessions Sessions) Service {
	return &service{store: st, sessions: sessions}
}

func (s *service) Register(ctx context.Context, username, password string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.CreateUser(ctx, username, password)
}

// Login checks the credentials and issues a session token alongside the
// authenticated user.
func (s *service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	userID, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessions.Issue(userID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, bio, favoriteGenre string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UpdateProfile(ctx, userID, bio, favoriteGenre)
}

func (s *service) ChangePassword(ctx context.Context, userID int64, current, updated string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := s.store.VerifyPassword(ctx, userID, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}

	return s.store.UpdatePassword(ctx, userID, updated)
}

// ToggleFavorite sets the item as the user's favorite of its kind, or clears
// the slot when the item already holds it. It reports whether the item is
// the favorite afterwards.
func (s *service) ToggleFavorite(ctx context.Context, userID int64, kind models.Kind, contentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	current, err := s.store.Favorite(ctx, userID, kind)
	if err != nil {
		return false, err
	}

	if current == contentID {
		return false, s.store.SetFavorite(ctx, userID, kind, nil)
	}
	return true, s.store.SetFavorite(ctx, userID, kind, &contentID)
}

func (s *service) Search(ctx context.Context, query string) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SearchUsers(ctx, query)
}

func (s *service) RandomUser(ctx context.Context, excludingID int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.RandomUser(ctx, excludingID)
}
