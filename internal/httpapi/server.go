// Package httpapi exposes the application over JSON HTTP. Handlers decode
// input, delegate to the per-domain services, and map domain errors onto
// status codes; no business logic lives here.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/j-cqln/reverb/internal/app/collections"
	"github.com/j-cqln/reverb/internal/app/journal"
	"github.com/j-cqln/reverb/internal/app/reviews"
	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/shared/go/models"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, bio, favoriteGenre string) error
	ChangePassword(ctx context.Context, userID int64, current, updated string) error
	ToggleFavorite(ctx context.Context, userID int64, kind models.Kind, contentID string) (bool, error)
	Search(ctx context.Context, query string) ([]models.User, error)
	RandomUser(ctx context.Context, excludingID int64) (*models.User, error)
}

// FriendService captures the friendship-graph operations.
type FriendService interface {
	SendRequest(ctx context.Context, requesterID int64, requestedUsername string) (int64, error)
	Accept(ctx context.Context, friendshipID int64) error
	Reject(ctx context.Context, friendshipID int64) error
	Remove(ctx context.Context, friendshipID int64) error
	Relations(ctx context.Context, userID int64) (models.Relations, error)
	Count(ctx context.Context, userID int64) (int, error)
	RandomFriend(ctx context.Context, userID int64) (*models.User, error)
}

// CollectionService captures collection workflows.
type CollectionService interface {
	Create(ctx context.Context, userID int64, name, description string) (int64, error)
	Add(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error
	Remove(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error
	Delete(ctx context.Context, userID, collectionID int64) error
	ByUser(ctx context.Context, userID int64) ([]models.Collection, error)
	Get(ctx context.Context, collectionID int64) (*models.Collection, []catalog.Item, error)
	Search(ctx context.Context, query string) ([]collections.Owner, error)
	Random(ctx context.Context) (*models.Collection, error)
}

// ReviewService captures review workflows.
type ReviewService interface {
	Post(ctx context.Context, userID int64, kind models.Kind, contentID string, rating int, text string) error
	ByUser(ctx context.Context, userID int64) ([]reviews.Reviewed, error)
	ByContent(ctx context.Context, kind models.Kind, contentID string) ([]models.Review, error)
	Delete(ctx context.Context, userID int64, contentID string) error
	Count(ctx context.Context, userID int64) (int, error)
	MostReviewed(ctx context.Context, kind models.Kind, userID *int64) (*catalog.Item, error)
}

// JournalService captures journal workflows.
type JournalService interface {
	Post(ctx context.Context, userID int64, kind models.Kind, contentID, text string) error
	ByUser(ctx context.Context, userID int64) ([]journal.Entry, error)
	ByContent(ctx context.Context, userID int64, contentID string) ([]models.JournalEntry, error)
	Delete(ctx context.Context, userID int64, contentID string) error
}

// Catalog is the slice of the external catalog the HTTP layer queries
// directly, for search and the home feed.
type Catalog interface {
	Search(ctx context.Context, query string, kind models.Kind, limit int) ([]catalog.Item, error)
	RandomItems(ctx context.Context, kind models.Kind, n int) ([]catalog.Item, error)
}

// Sessions resolves bearer tokens to user ids.
type Sessions interface {
	UserID(token string) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users       UserService
	friends     FriendService
	collections CollectionService
	reviews     ReviewService
	journal     JournalService
	catalog     Catalog
	sessions    Sessions
}

// New configures a Server with the given services.
func New(
	users UserService,
	friends FriendService,
	collections CollectionService,
	reviews ReviewService,
	journal JournalService,
	catalog Catalog,
	sessions Sessions,
) *Server {
	return &Server{
		users:       users,
		friends:     friends,
		collections: collections,
		reviews:     reviews,
		journal:     journal,
		catalog:     catalog,
		sessions:    sessions,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("PUT /api/me/password", s.handleChangePassword)
	mux.HandleFunc("PUT /api/me/favorites", s.handleToggleFavorite)

	mux.HandleFunc("GET /api/users/{id}", s.handleUserBundle)
	mux.HandleFunc("GET /api/users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/users/{id}/profile", s.handleUpdateProfile)

	mux.HandleFunc("GET /api/friends", s.handleRelations)
	mux.HandleFunc("POST /api/friends/requests", s.handleSendRequest)
	mux.HandleFunc("POST /api/friends/requests/{id}/accept", s.handleAcceptRequest)
	mux.HandleFunc("POST /api/friends/requests/{id}/reject", s.handleRejectRequest)
	mux.HandleFunc("DELETE /api/friends/{id}", s.handleRemoveFriend)

	mux.HandleFunc("POST /api/collections", s.handleCreateCollection)
	mux.HandleFunc("GET /api/collections", s.handleListCollections)
	mux.HandleFunc("GET /api/collections/{id}", s.handleGetCollection)
	mux.HandleFunc("DELETE /api/collections/{id}", s.handleDeleteCollection)
	mux.HandleFunc("POST /api/collections/{id}/items", s.handleAddCollectionItem)
	mux.HandleFunc("DELETE /api/collections/{id}/items", s.handleRemoveCollectionItem)

	mux.HandleFunc("PUT /api/reviews", s.handlePostReview)
	mux.HandleFunc("GET /api/reviews", s.handleListReviews)
	mux.HandleFunc("DELETE /api/reviews", s.handleDeleteReview)

	mux.HandleFunc("PUT /api/journal", s.handlePostJournalEntry)
	mux.HandleFunc("GET /api/journal", s.handleListJournalEntries)
	mux.HandleFunc("DELETE /api/journal", s.handleDeleteJournalEntry)

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/home", s.handleHome)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// authenticate resolves the caller from the Authorization header. A zero
// return means the response has already been written.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) int64 {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return 0
	}

	userID, err := s.sessions.UserID(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid session"})
		return 0
	}

	return userID
}

// pathID parses the {id} wildcard of the matched route.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return true
}

func parseKind(raw string) (models.Kind, bool) {
	kind := models.Kind(raw)
	return kind, kind.Valid()
}

// validUsername requires an alphanumeric handle of at most 20 characters.
func validUsername(username string) bool {
	if username == "" || len(username) > 20 {
		return false
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// validPassword requires at least 8 characters mixing upper case, lower
// case, and digits.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
