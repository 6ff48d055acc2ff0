package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/j-cqln/reverb/internal/store"
)

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	relations, err := s.friends.Relations(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, relations)
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username is required"})
		return
	}

	friendshipID, err := s.friends.SendRequest(r.Context(), userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		case errors.Is(err, store.ErrSelfFriendship):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, store.ErrAlreadyFriends), errors.Is(err, store.ErrFriendRequestPending):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		FriendshipID int64 `json:"friendship_id"`
	}{FriendshipID: friendshipID})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	s.handleFriendshipAction(w, r, s.friends.Accept)
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	s.handleFriendshipAction(w, r, s.friends.Reject)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	s.handleFriendshipAction(w, r, s.friends.Remove)
}

func (s *Server) handleFriendshipAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, friendshipID int64) error) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	friendshipID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid friendship id"})
		return
	}

	if err := action(r.Context(), friendshipID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
