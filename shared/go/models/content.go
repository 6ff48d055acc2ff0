package models

// Kind is the media category of a catalogued item.
type Kind string

const (
	KindTrack Kind = "track"
	KindAlbum Kind = "album"
)

// Valid reports whether k is a known media kind.
func (k Kind) Valid() bool {
	return k == KindTrack || k == KindAlbum
}

// ContentIDs holds external catalog ids partitioned by kind. When produced
// alongside a record list (reviews, journal entries) the ids appear in the
// same relative order as the records so callers can zip them positionally.
type ContentIDs struct {
	Tracks []string `json:"tracks"`
	Albums []string `json:"albums"`
}

// Empty reports whether no ids are present for either kind.
func (c ContentIDs) Empty() bool {
	return len(c.Tracks) == 0 && len(c.Albums) == 0
}

// ContentRef is a locally cached reference to an external catalog item.
// Rows are created the first time an item is added to a collection and are
// never updated or removed; orphaned references are tolerated.
type ContentRef struct {
	ID        int64  `json:"id"`
	SpotifyID string `json:"spotify_id"`
	Kind      Kind   `json:"kind"`
}
