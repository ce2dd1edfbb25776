// Package session holds the authenticated identity and bearer token for the
// current operator, persisted across invocations through a Storage backend.
//
// The store is the single source of truth for "am I logged in, and as whom".
// The user record and token are set and cleared together - no caller can
// ever observe one without the other.
package session

import (
	"sync"

	"github.com/linistrate/linictl/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var (
	// ErrNoSession is returned by TokenSource when no session is present.
	ErrNoSession = errors.New("no session present")
)

// Store is the process-wide session state. All mutations take the lock and
// update the user/token pair atomically.
type Store struct {
	mu      sync.Mutex
	user    *model.User
	token   string
	storage Storage
}

var _ oauth2.TokenSource = &Store{}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Restore loads any persisted session at startup. An absent session file
// leaves the store unauthenticated and is not an error. The token is not
// validated against the backend here - expiry is discovered lazily on the
// first authenticated request.
func (s *Store) Restore() error {
	record, err := s.storage.Read()
	if err != nil {
		return err
	}

	if record == nil || record.User == nil || record.Token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = record.User
	s.token = record.Token

	return nil
}

// Set installs a new session, replacing any previous one, and persists it.
func (s *Store) Set(user *model.User, token string) error {
	if user == nil || token == "" {
		return errors.New("session requires both a user and a token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Write(&model.Session{User: user, Token: token}); err != nil {
		return err
	}

	s.user = user
	s.token = token

	return nil
}

// Clear drops the in-memory and persisted session state unconditionally.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""

	return s.storage.Discard()
}

// Current returns the authenticated user, nil when logged out.
func (s *Store) Current() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Authenticated reports whether a session is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token != ""
}

// Token implements oauth2.TokenSource over the stored bearer token, the
// seam through which the request pipeline reads credentials.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return nil, ErrNoSession
	}

	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}
