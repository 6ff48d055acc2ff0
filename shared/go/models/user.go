package models

// User is a registered account. The favorite track/album columns hold
// external catalog ids and are empty until the user picks a favorite.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"`
	Bio           string `json:"bio,omitempty"`
	FavoriteGenre string `json:"favorite_genre,omitempty"`
	FavoriteTrack string `json:"favorite_track,omitempty"`
	FavoriteAlbum string `json:"favorite_album,omitempty"`
}
