// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"foorum/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	sessions *app.SessionManager
	feed     *app.FeedService
	webDir   string
}

// New creates a Server wired to the given application services.
func New(sessions *app.SessionManager, feed *app.FeedService, webDir string) *Server {
	return &Server{sessions: sessions, feed: feed, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/session", s.handleSession)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/logout", s.handleLogout)

	api.HandleFunc("/posts", s.handlePosts)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
