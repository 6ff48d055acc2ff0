package httpapi

import (
	"errors"
	"net/http"

	"github.com/j-cqln/reverb/internal/app/journal"
	"github.com/j-cqln/reverb/internal/app/reviews"
	"github.com/j-cqln/reverb/internal/app/users"
	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validUsername(req.Username) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username must be alphanumeric and at most 20 characters"})
		return
	}
	if !validPassword(req.Password) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password must be at least 8 characters with upper case, lower case, and a digit"})
		return
	}

	userID, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		ID int64 `json:"id"`
	}{ID: userID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, store.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	user, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validPassword(req.NewPassword) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password must be at least 8 characters with upper case, lower case, and a digit"})
		return
	}

	if err := s.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, users.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "current password does not match"})
		default:
			writeUserError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		Kind      string `json:"kind"`
		ContentID string `json:"content_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok || req.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind and content_id are required"})
		return
	}

	favorited, err := s.users.ToggleFavorite(r.Context(), userID, kind, req.ContentID)
	if err != nil {
		writeUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Favorited bool `json:"favorited"`
	}{Favorited: favorited})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if userID := s.authenticate(w, r); userID == 0 {
		return
	}

	targetID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := s.users.Profile(r.Context(), targetID)
	if err != nil {
		writeUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	targetID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	if targetID != userID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "cannot edit another user's profile"})
		return
	}

	var req struct {
		Bio           string `json:"bio"`
		FavoriteGenre string `json:"favorite_genre"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.users.UpdateProfile(r.Context(), userID, req.Bio, req.FavoriteGenre); err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userBundle is everything a profile page renders in one request.
type userBundle struct {
	User        *models.User        `json:"user"`
	Reviews     []reviews.Reviewed  `json:"reviews"`
	Collections []models.Collection `json:"collections"`
	FriendCount int                 `json:"friend_count"`
	ReviewCount int                 `json:"review_count"`
	Journal     []journal.Entry     `json:"journal,omitempty"`
	Relations   *models.Relations   `json:"relations,omitempty"`
}

// handleUserBundle aggregates a user's public page. Journal entries and
// relations are included only when the caller requests their own page.
func (s *Server) handleUserBundle(w http.ResponseWriter, r *http.Request) {
	callerID := s.authenticate(w, r)
	if callerID == 0 {
		return
	}

	targetID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	ctx := r.Context()

	user, err := s.users.Profile(ctx, targetID)
	if err != nil {
		writeUserError(w, err)
		return
	}

	reviewed, err := s.reviews.ByUser(ctx, targetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	userCollections, err := s.collections.ByUser(ctx, targetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	friendCount, err := s.friends.Count(ctx, targetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	reviewCount, err := s.reviews.Count(ctx, targetID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	bundle := userBundle{
		User:        user,
		Reviews:     reviewed,
		Collections: userCollections,
		FriendCount: friendCount,
		ReviewCount: reviewCount,
	}

	if targetID == callerID {
		entries, err := s.journal.ByUser(ctx, targetID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		relations, err := s.friends.Relations(ctx, targetID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		bundle.Journal = entries
		bundle.Relations = &relations
	}

	writeJSON(w, http.StatusOK, bundle)
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
