package models

// Collection is a named, user-owned grouping of catalog references. Image
// is derived from the first member added and re-derived when that member is
// removed; it is retained when the collection becomes empty.
type Collection struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}
