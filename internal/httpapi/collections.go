package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/j-cqln/reverb/internal/app/collections"
	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/models"
)

type collectionItemRequest struct {
	Kind      string `json:"kind"`
	ContentID string `json:"content_id"`
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	collectionID, err := s.collections.Create(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		ID int64 `json:"id"`
	}{ID: collectionID})
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	found, err := s.collections.ByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Collections []models.Collection `json:"collections"`
	}{Collections: found})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	if userID := s.authenticate(w, r); userID == 0 {
		return
	}

	collectionID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid collection id"})
		return
	}

	collection, items, err := s.collections.Get(r.Context(), collectionID)
	if err != nil {
		writeCollectionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Collection *models.Collection `json:"collection"`
		Items      []catalog.Item     `json:"items"`
	}{Collection: collection, Items: items})
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	collectionID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid collection id"})
		return
	}

	if err := s.collections.Delete(r.Context(), userID, collectionID); err != nil {
		writeCollectionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCollectionItem(w http.ResponseWriter, r *http.Request) {
	s.handleCollectionItem(w, r, s.collections.Add, http.StatusCreated)
}

func (s *Server) handleRemoveCollectionItem(w http.ResponseWriter, r *http.Request) {
	s.handleCollectionItem(w, r, s.collections.Remove, http.StatusNoContent)
}

func (s *Server) handleCollectionItem(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error,
	successStatus int,
) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	collectionID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid collection id"})
		return
	}

	var req collectionItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok || req.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind and content_id are required"})
		return
	}

	if err := action(r.Context(), userID, collectionID, kind, req.ContentID); err != nil {
		writeCollectionError(w, err)
		return
	}

	w.WriteHeader(successStatus)
}

func writeCollectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrCollectionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "collection not found"})
	case errors.Is(err, store.ErrCollectionItemNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found in collection"})
	case errors.Is(err, collections.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "collection belongs to another user"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
