package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/yeremiapane/facilities-app/models"
)

// Session is the single source of truth for who is signed in. It persists
// the identity to a state file so a restart does not force re-authentication.
// All mutation goes through Login and Logout.
type Session struct {
	mu       sync.RWMutex
	path     string
	user     *models.User
	token    string
	loading  bool
	listener func()
}

type sessionState struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// NewSession creates a store backed by the given state file. The session
// reports loading until Load has run.
func NewSession(path string) *Session {
	return &Session{path: path, loading: true}
}

// Load restores the persisted identity. Absent or malformed state resolves
// to "not authenticated"; it never returns an error to the caller.
func (s *Session) Load() {
	s.mu.Lock()

	s.user = nil
	s.token = ""
	s.loading = false

	data, err := os.ReadFile(s.path)
	if err == nil {
		var state sessionState
		if json.Unmarshal(data, &state) == nil && state.User.ID != 0 && state.Token != "" {
			user := state.User
			s.user = &user
			s.token = state.Token
		}
	}

	s.mu.Unlock()
	s.notify()
}

// Login stores the identity and persists it.
func (s *Session) Login(user models.User, token string) error {
	s.mu.Lock()
	u := user
	s.user = &u
	s.token = token
	s.loading = false

	err := s.persist(sessionState{User: user, Token: token})
	s.mu.Unlock()

	s.notify()
	return err
}

// Logout clears the identity and removes the persisted state.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		err = nil
	}
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Session) persist(state sessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0600)
}

// Loading reports whether the identity is still being resolved.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

func (s *Session) IsWorker() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleWorker
}

// OnChange registers the single listener notified after every session
// mutation.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	fn := s.listener
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
