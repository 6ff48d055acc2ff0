package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/j-cqln/reverb/shared/go/models"
)

var (
	// ErrAlreadyFriends signals an accepted edge already joins the pair.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrFriendRequestPending signals a pending edge already joins the pair.
	ErrFriendRequestPending = errors.New("friend request already pending")
	// ErrSelfFriendship signals a user tried to befriend themselves.
	ErrSelfFriendship = errors.New("cannot send a friend request to yourself")
)

// SendFriendRequest inserts a pending edge from requester to requested.
// Both directions are checked first; the unique index on the unordered pair
// backstops the race between the check and the insert.
func (s *Store) SendFriendRequest(ctx context.Context, requesterID, requestedID int64) (int64, error) {
	if requesterID == requestedID {
		return 0, ErrSelfFriendship
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, requester_id, requested_id, status
		FROM friendships
		WHERE (requester_id = $1 AND requested_id = $2)
		   OR (requester_id = $2 AND requested_id = $1)
	`, requesterID, requestedID)
	if err != nil {
		return 0, fmt.Errorf("check friendship: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.ID, &f.RequesterID, &f.RequestedID, &f.Status); err != nil {
			return 0, fmt.Errorf("scan friendship: %w", err)
		}
		if f.Status == models.FriendshipAccepted {
			return 0, ErrAlreadyFriends
		}
		return 0, ErrFriendRequestPending
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate friendships: %w", err)
	}

	var edgeID int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO friendships (requester_id, requested_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id
	`, requesterID, requestedID).Scan(&edgeID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrFriendRequestPending
		}
		return 0, fmt.Errorf("insert friendship: %w", err)
	}

	return edgeID, nil
}

// AcceptFriendRequest moves a pending edge to accepted. Edges in any other
// state are left alone, so repeated accepts are safe.
func (s *Store) AcceptFriendRequest(ctx context.Context, friendshipID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE friendships
		SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
	`, friendshipID)
	if err != nil {
		return fmt.Errorf("accept friendship: %w", err)
	}
	return nil
}

// RejectFriendRequest deletes a pending edge. Accepted edges and unknown
// ids are left alone.
func (s *Store) RejectFriendRequest(ctx context.Context, friendshipID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE id = $1 AND status = 'pending'
	`, friendshipID)
	if err != nil {
		return fmt.Errorf("reject friendship: %w", err)
	}
	return nil
}

// RemoveFriend deletes a pending or accepted edge.
func (s *Store) RemoveFriend(ctx context.Context, friendshipID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE id = $1 AND status IN ('pending', 'accepted')
	`, friendshipID)
	if err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	return nil
}

// Relations partitions every edge touching the user by status and by which
// side the user occupies, resolving the other party for each edge.
func (s *Store) Relations(ctx context.Context, userID int64) (models.Relations, error) {
	var relations models.Relations

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.status, f.requester_id,
			u.id, u.username, u.password_hash, u.bio, u.favorite_genre, u.favorite_track, u.favorite_album
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.requested_id ELSE f.requester_id END
		WHERE (f.requester_id = $1 OR f.requested_id = $1)
		  AND f.status IN ('pending', 'accepted')
		ORDER BY f.id ASC
	`, userID)
	if err != nil {
		return relations, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			edgeID      int64
			status      models.FriendshipStatus
			requesterID int64
			other       models.User
		)
		if err := rows.Scan(&edgeID, &status, &requesterID,
			&other.ID, &other.Username, &other.PasswordHash, &other.Bio,
			&other.FavoriteGenre, &other.FavoriteTrack, &other.FavoriteAlbum); err != nil {
			return relations, fmt.Errorf("scan friendship: %w", err)
		}

		relation := models.Relation{User: other, FriendshipID: edgeID}
		switch {
		case status == models.FriendshipAccepted:
			relations.Friends = append(relations.Friends, relation)
		case requesterID == userID:
			relations.PendingSent = append(relations.PendingSent, relation)
		default:
			relations.PendingReceived = append(relations.PendingReceived, relation)
		}
	}
	if err := rows.Err(); err != nil {
		return relations, fmt.Errorf("iterate friendships: %w", err)
	}

	return relations, nil
}

// FriendCount returns the number of accepted edges touching the user.
func (s *Store) FriendCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM friendships
		WHERE (requester_id = $1 OR requested_id = $1)
		  AND status = 'accepted'
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count friends: %w", err)
	}
	return count, nil
}

// RandomFriend picks a uniformly random accepted friend of the user and
// resolves the opposite party. It returns nil without error when the user
// has no friends.
func (s *Store) RandomFriend(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.bio, u.favorite_genre, u.favorite_track, u.favorite_album
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.requested_id ELSE f.requester_id END
		WHERE (f.requester_id = $1 OR f.requested_id = $1)
		  AND f.status = 'accepted'
		ORDER BY random()
		LIMIT 1
	`, userID))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}
