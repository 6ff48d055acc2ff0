package httpapi

import (
	"net/http"

	"github.com/j-cqln/reverb/internal/app/collections"
	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/shared/go/models"
)

const searchLimit = 10

// searchResults merges catalog hits with local users and collections.
type searchResults struct {
	Tracks      []catalog.Item      `json:"tracks,omitempty"`
	Albums      []catalog.Item      `json:"albums,omitempty"`
	Users       []models.User       `json:"users,omitempty"`
	Collections []collections.Owner `json:"collections,omitempty"`
}

// handleSearch runs one query across the selected domains. Domains are
// selected with boolean-style query parameters (track, album, user,
// collection); when none is present every domain is searched.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if userID := s.authenticate(w, r); userID == 0 {
		return
	}

	params := r.URL.Query()
	query := params.Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	wantTracks := params.Has("track")
	wantAlbums := params.Has("album")
	wantUsers := params.Has("user")
	wantCollections := params.Has("collection")
	if !wantTracks && !wantAlbums && !wantUsers && !wantCollections {
		wantTracks, wantAlbums, wantUsers, wantCollections = true, true, true, true
	}

	ctx := r.Context()
	var results searchResults

	if wantTracks {
		tracks, err := s.catalog.Search(ctx, query, models.KindTrack, searchLimit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		results.Tracks = tracks
	}

	if wantAlbums {
		albums, err := s.catalog.Search(ctx, query, models.KindAlbum, searchLimit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		results.Albums = albums
	}

	if wantUsers {
		found, err := s.users.Search(ctx, query)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		results.Users = found
	}

	if wantCollections {
		found, err := s.collections.Search(ctx, query)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		results.Collections = found
	}

	writeJSON(w, http.StatusOK, results)
}
