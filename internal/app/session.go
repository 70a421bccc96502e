package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"foorum/internal/domain"
)

// DefaultLoginDelay is the simulated latency of login and registration.
// The original experience treats authentication as an asynchronous
// operation; the delay is cosmetic and always resolves.
const DefaultLoginDelay = 500 * time.Millisecond

// SessionManager owns the single active session. It is constructed once at
// process start and injected into its consumers; there is exactly one
// active session per storage backend, persisted under the "user" key.
type SessionManager struct {
	mu      sync.Mutex
	creds   *CredentialStore
	store   domain.Store
	delay   time.Duration
	current *domain.User
}

// NewSessionManager creates a session manager over the given credential
// store and storage backend. delay is the simulated latency applied to
// Login and Register; pass 0 to disable it (tests).
func NewSessionManager(creds *CredentialStore, store domain.Store, delay time.Duration) *SessionManager {
	return &SessionManager{creds: creds, store: store, delay: delay}
}

// Restore loads a previously persisted session, if any. An absent key
// restores to signed-out. A malformed record also restores to signed-out
// and reports the decode fault so the caller can log it; the session is
// user-facing fixture state, not worth failing startup over.
func (m *SessionManager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, keySession)
	if errors.Is(err, domain.ErrNotFound) {
		m.current = nil
		return nil
	}
	if err != nil {
		return err
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		m.current = nil
		return fmt.Errorf("decode %s: %w", keySession, err)
	}
	m.current = &u
	return nil
}

// Current returns the active session's user, or nil when signed out.
func (m *SessionManager) Current() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Login authenticates against the credential store and, on success, makes
// the matched identity the active session and persists it. Bad credentials
// return ErrInvalidCredentials with the session unchanged.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	m.sleep()

	user, err := m.creds.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.setCurrent(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a new account and signs it in. The username is a
// required explicit input; deriving one from the email local-part is a
// presentation-layer convenience, not done here. A duplicate email returns
// ErrEmailExists with the session unchanged.
func (m *SessionManager) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	m.sleep()

	user, err := m.creds.Register(ctx, email, username, password)
	if err != nil {
		return nil, err
	}
	if err := m.setCurrent(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the active session and its persisted record. Signing out
// while signed out is a no-op.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	m.current = nil
	err := m.store.Delete(ctx, keySession)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (m *SessionManager) setCurrent(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keySession, err)
	}
	if err := m.store.Set(ctx, keySession, raw); err != nil {
		return err
	}
	u := *user
	m.current = &u
	return nil
}

func (m *SessionManager) sleep() {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
}
