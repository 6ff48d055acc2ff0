package models

// JournalEntry is free-form text a user keeps about one catalog item.
// At most one entry exists per (user, item); posting again overwrites the
// text in place.
type JournalEntry struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	ContentID string `json:"content_id"`
	Kind      Kind   `json:"kind"`
	Text      string `json:"text"`
}
