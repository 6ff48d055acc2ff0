package models

// Review is a user's rating and commentary for one external catalog item.
// At most one review exists per (user, kind, item), enforced by a unique
// constraint; posting again overwrites rating and text in place.
type Review struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Kind      Kind   `json:"kind"`
	ContentID string `json:"content_id"`
	Rating    int    `json:"rating"`
	Text      string `json:"text,omitempty"`
}
