package models

// FriendshipStatus is the state of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipPending means the request has been sent but not answered.
	FriendshipPending FriendshipStatus = "pending"
	// FriendshipAccepted means both parties are friends.
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship is an edge between two users. The column order records who
// sent the request; rejection and removal delete the row rather than
// recording a status.
type Friendship struct {
	ID          int64            `json:"id"`
	RequesterID int64            `json:"requester_id"`
	RequestedID int64            `json:"requested_id"`
	Status      FriendshipStatus `json:"status"`
}

// Relation pairs the other party of a friendship edge with the edge id,
// which callers need to accept, reject, or remove the edge.
type Relation struct {
	User         User  `json:"user"`
	FriendshipID int64 `json:"friendship_id"`
}

// Relations partitions every edge touching a user by status and direction.
type Relations struct {
	Friends         []Relation `json:"friends"`
	PendingSent     []Relation `json:"pending_sent"`
	PendingReceived []Relation `json:"pending_received"`
}
