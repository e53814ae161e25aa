// Package server exposes the Slack gateway over HTTP for the admin portal.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chrisedwards/slack-gateway/internal/gateway"
	"github.com/chrisedwards/slack-gateway/internal/store"
)

// Headers set by the fronting auth proxy to identify the portal user.
const (
	headerUserID    = "X-User-ID"
	headerUserEmail = "X-User-Email"
)

// Server wires HTTP routes to the gateway.
type Server struct {
	gw     *gateway.Gateway
	logger *slog.Logger
}

// New creates a Server for the given gateway.
func New(gw *gateway.Gateway, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{gw: gw, logger: logger}
}

// Router builds the chi handler tree.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerUserID, headerUserEmail},
		AllowCredentials: false,
	}))
	r.Use(s.sessionMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/channels", s.handleListChannels)
		r.Post("/channels", s.handleCreateChannel)
		r.Get("/channels/{channelID}/history", s.handleChannelHistory)
		r.Get("/channels/{channelID}/messages/{ts}", s.handleGetMessage)
		r.Get("/channels/{channelID}/thread/{ts}", s.handleThreadReplies)
		r.Post("/channels/{channelID}/messages", s.handleSendMessage)
		r.Post("/channels/{channelID}/files", s.handleUploadFile)
		r.Post("/channels/{channelID}/reactions", s.handleAddReaction)
		r.Get("/dms", s.handleListDMs)
		r.Get("/users", s.handleListUsers)
		r.Get("/unreads", s.handleUnreads)
		r.Get("/identity", s.handleIdentity)
		r.Get("/connected", s.handleConnected)
		r.Post("/cache/clear", s.handleClearCache)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// sessionMiddleware lifts the auth proxy's identity headers into the
// request context. Requests without the headers proceed unauthenticated;
// credential resolution then skips the end-user token source.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerUserID)
		email := r.Header.Get(headerUserEmail)
		if userID != "" || email != "" {
			ctx := store.WithSession(r.Context(), store.Session{UserID: userID, Email: email})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func partnerID(r *http.Request) string {
	return r.URL.Query().Get("partner")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
