// Package app holds the application services and business logic.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"foorum/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists indicates that the email is already taken by a built-in or registered account.
	ErrEmailExists = errors.New("email already exists")
)

// Storage keys shared by the application services.
const (
	keySession    = "user"
	keyRegistered = "registeredUsers"
	keyPosts      = "posts"
)

// BuiltinAccounts returns the fixed demo accounts available without
// registration. Fixture data; the match order is their order here.
func BuiltinAccounts() []domain.Account {
	return []domain.Account{
		{ID: "builtin-demo", Email: "demo@example.com", Password: "password123", Username: "Demo User"},
		{ID: "builtin-test", Email: "test@user.com", Password: "testpass", Username: "Test User"},
	}
}

// CredentialStore resolves login attempts and registration requests against
// a two-tier account set: the immutable built-in accounts plus the
// registered accounts persisted under the "registeredUsers" key.
type CredentialStore struct {
	mu      sync.Mutex
	store   domain.Store
	builtin []domain.Account
}

// NewCredentialStore creates a credential store over the given storage
// backend, seeded with the built-in accounts.
func NewCredentialStore(store domain.Store) *CredentialStore {
	return &CredentialStore{store: store, builtin: BuiltinAccounts()}
}

// FindByCredentials resolves an (email, password) pair to a user
// projection. Matching is case-sensitive and exact: built-in accounts are
// scanned first in fixed order, then registered accounts in insertion
// order. No match returns ErrInvalidCredentials.
func (s *CredentialStore) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.builtin {
		if a.Email == email && a.Password == password {
			u := a.User()
			return &u, nil
		}
	}

	registered, err := s.loadRegistered(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range registered {
		if a.Email == email && a.Password == password {
			u := a.User()
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// EmailExists reports whether the email belongs to any built-in or
// registered account, case-sensitive.
func (s *CredentialStore) EmailExists(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailExistsLocked(ctx, email)
}

// Register appends a new account to the registered set and returns its
// projection. A taken email returns ErrEmailExists. The existence check
// and the append are one atomic unit under the store mutex.
func (s *CredentialStore) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.emailExistsLocked(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	registered, err := s.loadRegistered(ctx)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Password: password,
	}
	registered = append(registered, account)

	raw, err := json.Marshal(registered)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", keyRegistered, err)
	}
	if err := s.store.Set(ctx, keyRegistered, raw); err != nil {
		return nil, err
	}

	u := account.User()
	return &u, nil
}

func (s *CredentialStore) emailExistsLocked(ctx context.Context, email string) (bool, error) {
	for _, a := range s.builtin {
		if a.Email == email {
			return true, nil
		}
	}
	registered, err := s.loadRegistered(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range registered {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// loadRegistered reads the persisted registered-account list. An absent
// key is an empty list; malformed JSON is a storage fault, since silently
// resetting the list would drop real registrations.
func (s *CredentialStore) loadRegistered(ctx context.Context) ([]domain.Account, error) {
	raw, err := s.store.Get(ctx, keyRegistered)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var registered []domain.Account
	if err := json.Unmarshal(raw, &registered); err != nil {
		return nil, fmt.Errorf("decode %s: %w", keyRegistered, err)
	}
	return registered, nil
}
