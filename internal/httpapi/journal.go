package httpapi

import (
	"net/http"

	"github.com/j-cqln/reverb/internal/app/journal"
	"github.com/j-cqln/reverb/shared/go/models"
)

func (s *Server) handlePostJournalEntry(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	var req struct {
		Kind      string `json:"kind"`
		ContentID string `json:"content_id"`
		Text      string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok || req.ContentID == "" || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind, content_id, and text are required"})
		return
	}

	if err := s.journal.Post(r.Context(), userID, kind, req.ContentID, req.Text); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListJournalEntries returns the caller's journal, or the caller's
// entries for one item when a content_id query parameter is present.
func (s *Server) handleListJournalEntries(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == 0 {
		return
	}

	if contentID := r.URL.Query().Get("content_id"); contentID != "" {
		found, err := s.journal.ByContent(r.Context(), userID, contentID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Entries []models.JournalEntry `json:"entries"`
		}{Entries: found})
		return
	}

	entries, err := s.journal.ByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Entries []journal.Entry `json:"entries"`
	}{Entries: entries})
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
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

	if err := s.journal.Delete(r.Context(), userID, req.ContentID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
