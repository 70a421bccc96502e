package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	adapthttp "foorum/internal/adapter/http"
	"foorum/internal/adapter/memory"
	"foorum/internal/app"
)

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

func newTestServer(t *testing.T) (*httptest.Server, *app.SessionManager) {
	t.Helper()

	store := memory.New()
	creds := app.NewCredentialStore(store)
	sessions := app.NewSessionManager(creds, store, 0)
	feed := app.NewFeedService(store)

	srv := httptest.NewServer(adapthttp.New(sessions, feed, t.TempDir()).Handler())
	t.Cleanup(srv.Close)
	return srv, sessions
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

// ---------------------------------------------------------------------------
// Auth handlers
// ---------------------------------------------------------------------------

func TestHandleLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "demo@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Errorf("expected ok=true, got %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "demo@example.com" {
		t.Errorf("expected demo@example.com, got %v", user)
	}
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	srv, sessions := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "demo@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Invalid email or password" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	if sessions.Current() != nil {
		t.Error("expected no session after failed login")
	}
}

func TestHandleRegister_DefaultsUsernameFromEmail(t *testing.T) {
	srv, sessions := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "sam@x.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user, _ := body["user"].(map[string]any)
	if user["username"] != "sam" {
		t.Errorf("expected username sam from email local-part, got %v", user["username"])
	}
	if current := sessions.Current(); current == nil || current.Email != "sam@x.com" {
		t.Errorf("expected active session for sam@x.com, got %+v", current)
	}
}

func TestHandleRegister_Conflict(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "test@user.com", "username": "dupe", "password": "pw",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Email already exists" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestHandleLogout(t *testing.T) {
	srv, sessions := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "demo@example.com", "password": "password123",
	})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/logout", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if sessions.Current() != nil {
		t.Error("expected signed-out session after logout")
	}
}

// ---------------------------------------------------------------------------
// Feed handlers
// ---------------------------------------------------------------------------

func TestHandleFeed_SeededOnFirstRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/posts")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	posts, _ := body["posts"].([]any)
	if len(posts) != 3 {
		t.Fatalf("expected 3 seed posts, got %d", len(posts))
	}
	first, _ := posts[0].(map[string]any)
	if first["authorName"] != "Theresa Webb" {
		t.Errorf("expected Theresa Webb first, got %v", first["authorName"])
	}
}

func TestHandleCreatePost(t *testing.T) {
	srv, _ := newTestServer(t)

	// Signed out: creation is rejected.
	resp := postJSON(t, srv.URL+"/api/posts", map[string]string{"body": "hi"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 signed out, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "demo@example.com", "password": "password123",
	})
	resp.Body.Close()

	// Empty body is rejected.
	resp = postJSON(t, srv.URL+"/api/posts", map[string]string{"body": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/posts", map[string]string{"body": "hello feed", "emoji": "\U0001F44B"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	post, _ := body["post"].(map[string]any)
	if post["body"] != "hello feed" || post["authorName"] != "Demo User" {
		t.Errorf("unexpected post: %v", post)
	}

	// The feed now leads with the new post.
	resp, err := http.Get(srv.URL + "/api/posts")
	if err != nil {
		t.Fatal(err)
	}
	feedBody := decodeBody(t, resp)
	posts, _ := feedBody["posts"].([]any)
	if len(posts) != 4 {
		t.Fatalf("expected 4 posts, got %d", len(posts))
	}
	first, _ := posts[0].(map[string]any)
	if first["body"] != "hello feed" {
		t.Errorf("expected new post first, got %v", first["body"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/login")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
