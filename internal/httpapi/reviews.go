package httpapi

import (
	"errors"
	"net/http"

	"github.com/j-cqln/reverb/internal/app/reviews"
	"github.com/j-cqln/reverb/shared/go/models"
)

func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		Kind      string `json:"kind"`
		ContentID string `json:"content_id"`
		Rating    int    `json:"rating"`
		Text      string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok || req.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind and content_id are required"})
		return
	}

	if err := s.reviews.Post(r.Context(), userID, kind, req.ContentID, req.Rating, req.Text); err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidRating):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListReviews returns the caller's reviews, or the reviews of one item
// when kind and content_id query parameters are present.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	query := r.URL.Query()
	if contentID := query.Get("content_id"); contentID != "" {
		kind, ok := parseKind(query.Get("kind"))
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind is required with content_id"})
			return
		}

		found, err := s.reviews.ByContent(r.Context(), kind, contentID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Reviews []models.Review `json:"reviews"`
		}{Reviews: found})
		return
	}

	reviewed, err := s.reviews.ByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Reviews []reviews.Reviewed `json:"reviews"`
	}{Reviews: reviewed})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		ContentID string `json:"content_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content_id is required"})
		return
	}

	if err := s.reviews.Delete(r.Context(), userID, req.ContentID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
