package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/j-cqln/reverb/internal/app/collections"
	"github.com/j-cqln/reverb/internal/app/friends"
	"github.com/j-cqln/reverb/internal/app/journal"
	"github.com/j-cqln/reverb/internal/app/reviews"
	"github.com/j-cqln/reverb/internal/app/users"
	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/internal/httpapi"
	"github.com/j-cqln/reverb/internal/session"
	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/middleware"
)

func newHTTPHandler(cfg Config, log zerolog.Logger, dataStore *store.Store) http.Handler {
	sessions := session.NewManager(cfg.JWTSecret, "reverb", cfg.SessionTTL)
	catalogClient := catalog.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)

	userSvc := users.New(dataStore, sessions)
	friendSvc := friends.New(dataStore)
	collectionSvc := collections.New(dataStore, catalogClient)
	reviewSvc := reviews.New(dataStore, catalogClient)
	journalSvc := journal.New(dataStore, catalogClient)

	handler := httpapi.New(userSvc, friendSvc, collectionSvc, reviewSvc, journalSvc,
		catalogClient, sessions).Routes()

	handler = middleware.Recovery(log)(handler)
	handler = middleware.RequestLogging(log)(handler)

	return withCORS(cfg.AllowedOrigins, handler)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
