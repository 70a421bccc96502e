package adapthttp

import (
	"errors"
	"net/http"

	"foorum/internal/app"
)

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleFeed(w, r)
	case http.MethodPost:
		s.handleCreatePost(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.feed.Load(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := s.sessions.Current()
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "message": "Sign in to post"})
		return
	}

	var req struct {
		Body  string `json:"body"`
		Emoji string `json:"emoji"`
	}
	if err := parseJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	post, err := s.feed.CreatePost(r.Context(), user, req.Body, req.Emoji)
	if errors.Is(err, app.ErrEmptyBody) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": "Post cannot be empty"})
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "post": post})
}
