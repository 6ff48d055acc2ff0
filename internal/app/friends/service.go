package friends

import (
	"context"

	"github.com/j-cqln/reverb/shared/go/models"
)

// Store defines persistence operations required for friendship workflows.
type Store interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	SendFriendRequest(ctx context.Context, requesterID, requestedID int64) (int64, error)
	AcceptFriendRequest(ctx context.Context, friendshipID int64) error
	RejectFriendRequest(ctx context.Context, friendshipID int64) error
	RemoveFriend(ctx context.Context, friendshipID int64) error
	Relations(ctx context.Context, userID int64) (models.Relations, error)
	FriendCount(ctx context.Context, userID int64) (int, error)
	RandomFriend(ctx context.Context, userID int64) (*models.User, error)
}

// Service describes high level friendship operations used by HTTP handlers.
type Service interface {
	SendRequest(ctx context.Context, requesterID int64, requestedUsername string) (int64, error)
	Accept(ctx context.Context, friendshipID int64) error
	Reject(ctx context.Context, friendshipID int64) error
	Remove(ctx context.Context, friendshipID int64) error
	Relations(ctx context.Context, userID int64) (models.Relations, error)
	Count(ctx context.Context, userID int64) (int, error)
	RandomFriend(ctx context.Context, userID int64) (*models.User, error)
}

type service struct {
	store Store
}

// New constructs a friendship Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

// SendRequest resolves the requested user by handle and records a pending
// edge from the requester.
func (s *service) SendRequest(ctx context.Context, requesterID int64, requestedUsername string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	requested, err := s.store.UserByUsername(ctx, requestedUsername)
	if err != nil {
		return 0, err
	}

	return s.store.SendFriendRequest(ctx, requesterID, requested.ID)
}

func (s *service) Accept(ctx context.Context, friendshipID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AcceptFriendRequest(ctx, friendshipID)
}

func (s *service) Reject(ctx context.Context, friendshipID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RejectFriendRequest(ctx, friendshipID)
}

func (s *service) Remove(ctx context.Context, friendshipID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFriend(ctx, friendshipID)
}

func (s *service) Relations(ctx context.Context, userID int64) (models.Relations, error) {
	if err := ctx.Err(); err != nil {
		return models.Relations{}, err
	}
	return s.store.Relations(ctx, userID)
}

func (s *service) Count(ctx context.Context, userID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.FriendCount(ctx, userID)
}

func (s *service) RandomFriend(ctx context.Context, userID int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.RandomFriend(ctx, userID)
}
