// Package session carries authenticated-request state with an explicit
// lifecycle. A Session is created once, injected into the components that need
// it, and cleared on logout; nothing in this module reads ambient globals.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotAuthenticated is returned when a token is requested from a session
// that has not been initialized or was cleared.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// User is the authenticated principal attached to a session.
type User struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

// Session holds per-user request state. All methods are safe for concurrent
// use.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      User
	language  string
	expiresAt time.Time
	active    bool
}

// Option configures a session at construction.
type Option func(*Session)

// WithLanguage sets the language propagated to collaborating services.
func WithLanguage(language string) Option {
	return func(s *Session) {
		if language != "" {
			s.language = language
		}
	}
}

// New creates an unauthenticated session.
func New(options ...Option) *Session {
	s := &Session{language: "en"}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Init authenticates the session. An empty token is rejected. The zero
// expiry means the token does not expire.
func (s *Session) Init(token string, user User, expiresAt time.Time) error {
	if token == "" {
		return errors.New("session: token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
	s.active = true
	return nil
}

// Clear logs the session out, discarding token and user state. The language
// preference survives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
	s.expiresAt = time.Time{}
	s.active = false
}

// Token returns the current auth token, or ErrNotAuthenticated when the
// session is inactive or expired.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.activeLocked() {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// User returns the authenticated principal.
func (s *Session) User() (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.activeLocked() {
		return User{}, ErrNotAuthenticated
	}
	return s.user, nil
}

// Authenticated reports whether the session holds a live token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

// Language returns the session language preference.
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage updates the language preference.
func (s *Session) SetLanguage(language string) {
	if language == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

func (s *Session) activeLocked() bool {
	if !s.active {
		return false
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return false
	}
	return true
}

type contextKey struct{}

// NewContext attaches the session to a context for handler chains.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the session attached by NewContext.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
