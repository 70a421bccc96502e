package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"foorum/internal/domain"
)

var (
	// ErrNoSession indicates that CreatePost was called without an active
	// session. The caller must gate post creation on session state, so this
	// is a bug in the calling collaborator, not user input.
	ErrNoSession = errors.New("no active session")
	// ErrEmptyBody indicates a post body that is empty after trimming.
	ErrEmptyBody = errors.New("post body is empty")
)

const loremBody = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat."

// FeedService owns the ordered post collection, newest-first. The feed is
// persisted wholesale under the "posts" key on every mutation and seeded
// with fixture content on first run.
type FeedService struct {
	mu     sync.Mutex
	store  domain.Store
	posts  []domain.Post
	loaded bool
	lastID int64
}

// NewFeedService creates a feed service over the given storage backend.
func NewFeedService(store domain.Store) *FeedService {
	return &FeedService{store: store}
}

// Load returns the current feed, newest-first. On first access with no
// persisted feed it seeds the fixture posts and persists them. A malformed
// persisted feed degrades to a fresh seed rather than failing: the feed is
// user-facing fixture data, not critical state.
func (s *FeedService) Load(ctx context.Context) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

// CreatePost builds a post attributed to the author, prepends it to the
// feed, persists the full sequence and returns the new post. The post id
// is the creation time in ms, bumped past the previous id when two
// creations land in the same millisecond.
func (s *FeedService) CreatePost(ctx context.Context, author *domain.User, body, emoji string) (*domain.Post, error) {
	if author == nil {
		return nil, ErrNoSession
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	ts := time.Now().UnixMilli()
	if ts <= s.lastID {
		ts = s.lastID + 1
	}
	s.lastID = ts

	post := domain.Post{
		ID:           strconv.FormatInt(ts, 10),
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.Avatar,
		Body:         body,
		Emoji:        emoji,
		CreatedAt:    ts,
	}

	next := make([]domain.Post, 0, len(s.posts)+1)
	next = append(next, post)
	next = append(next, s.posts...)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.posts = next
	return &post, nil
}

func (s *FeedService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, err := s.store.Get(ctx, keyPosts)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.seed(ctx)
	case err != nil:
		return err
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		// Fixture data, not critical state: reseed instead of failing.
		return s.seed(ctx)
	}

	s.posts = posts
	s.lastID = maxCreatedAt(posts)
	s.loaded = true
	return nil
}

func (s *FeedService) seed(ctx context.Context) error {
	posts := SeedPosts(time.Now())
	if err := s.persist(ctx, posts); err != nil {
		return err
	}
	s.posts = posts
	s.lastID = maxCreatedAt(posts)
	return nil
}

func (s *FeedService) persist(ctx context.Context, posts []domain.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyPosts, err)
	}
	if err := s.store.Set(ctx, keyPosts, raw); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// SeedPosts returns the fixture posts shown on a fresh feed, dated five
// minutes before now. Replaceable sample content, not business logic.
func SeedPosts(now time.Time) []domain.Post {
	createdAt := now.Add(-5 * time.Minute).UnixMilli()
	return []domain.Post{
		{ID: "1", AuthorID: "1", AuthorName: "Theresa Webb", Body: loremBody, Emoji: "\U0001F974", CreatedAt: createdAt},
		{ID: "2", AuthorID: "2", AuthorName: "John Doe", Body: loremBody, Emoji: "\U0001F91E", CreatedAt: createdAt},
		{ID: "3", AuthorID: "3", AuthorName: "Jane Doe", Body: loremBody, Emoji: "\U0001F480", CreatedAt: createdAt},
	}
}

func maxCreatedAt(posts []domain.Post) int64 {
	var max int64
	for _, p := range posts {
		if p.CreatedAt > max {
			max = p.CreatedAt
		}
	}
	return max
}
