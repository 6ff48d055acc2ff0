package httpapi

import (
	"net/http"

	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/shared/go/models"
)

const homeSampleSize = 4

// homeFeed is the discovery page: random catalog items, a random user and
// friend to visit, a random collection, and the most reviewed items sitewide
// plus one seen through a random friend's reviews. Any field can be null
// when the site has no data to sample from.
type homeFeed struct {
	Tracks                  []catalog.Item     `json:"tracks"`
	Albums                  []catalog.Item     `json:"albums"`
	RandomUser              *models.User       `json:"random_user,omitempty"`
	RandomFriend            *models.User       `json:"random_friend,omitempty"`
	RandomCollection        *models.Collection `json:"random_collection,omitempty"`
	MostReviewedTrack       *catalog.Item      `json:"most_reviewed_track,omitempty"`
	MostReviewedAlbum       *catalog.Item      `json:"most_reviewed_album,omitempty"`
	FriendMostReviewedTrack *catalog.Item      `json:"friend_most_reviewed_track,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	ctx := r.Context()
	var feed homeFeed
	var err error

	feed.Tracks, err = s.catalog.RandomItems(ctx, models.KindTrack, homeSampleSize)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.Albums, err = s.catalog.RandomItems(ctx, models.KindAlbum, homeSampleSize)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.RandomUser, err = s.users.RandomUser(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.RandomFriend, err = s.friends.RandomFriend(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.RandomCollection, err = s.collections.Random(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.MostReviewedTrack, err = s.reviews.MostReviewed(ctx, models.KindTrack, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	feed.MostReviewedAlbum, err = s.reviews.MostReviewed(ctx, models.KindAlbum, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if feed.RandomFriend != nil {
		friendID := feed.RandomFriend.ID
		feed.FriendMostReviewedTrack, err = s.reviews.MostReviewed(ctx, models.KindTrack, &friendID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, feed)
}
