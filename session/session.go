// Package session holds the signed-in staff member and their API token.
//
// A Session is constructed explicitly and handed to every view that needs it.
// Open reads the token persisted by a previous run; Logout clears memory and storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resto-pos/models"
)

// TokenKey is the local storage key holding the token
const TokenKey = "auth_token"

// Storage persists the token between runs
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// UserFetcher resolves the owner of the current token
type UserFetcher interface {
	Me(ctx context.Context) (models.User, error)
}

type Session struct {
	store Storage

	mu    sync.RWMutex
	user  *models.User
	token string
}

// Open restores the persisted token, if any. The user stays unknown until Refresh or Login.
func Open(store Storage) (*Session, error) {
	s := &Session{store: store}
	token, found, err := store.GetItem(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if found {
		s.token = token
	}
	return s, nil
}

// Login stores the user and token and persists the token.
// Memory is updated even when persisting fails.
func (s *Session) Login(user models.User, token string) error {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	if err := s.store.SetItem(TokenKey, token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	return nil
}

// Logout forgets the user and token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.RemoveItem(TokenKey); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}
	return nil
}

// Refresh loads the user owning the current token. A rejected token ends the session.
func (s *Session) Refresh(ctx context.Context, auth UserFetcher) error {
	if !s.IsAuthenticated() {
		return ErrSignedOut
	}
	user, err := auth.Me(ctx)
	if err != nil {
		var u unauthorizer
		if errors.As(err, &u) && u.Unauthorized() {
			_ = s.Logout()
			return ErrSignedOut
		}
		return err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// ErrSignedOut is returned when an operation needs a signed-in user
var ErrSignedOut = errors.New("not signed in")

type unauthorizer interface {
	Unauthorized() bool
}

// Token returns the bearer token, empty when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user when known
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// HasRole reports whether the known user holds one of roles
func (s *Session) HasRole(roles ...models.UserRole) bool {
	u, ok := s.User()
	if !ok {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Role returns the role of the known user
func (s *Session) Role() models.UserRole {
	u, _ := s.User()
	return u.Role
}
