// Package session tracks who is signed in. A Session is created once at
// startup and handed to every view that needs it.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
)

// ErrNoAuthenticator is returned when a Session has no backend.
var ErrNoAuthenticator = errors.New("no authenticator configured")

// Authenticator performs the authenticated calls behind a Session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
	IsLoggedIn() bool
}

// State is a read-only view of the session.
type State struct {
	User          *model.User
	IsLoading     bool
	IsSuperAdmin  bool
	AccountStatus model.AccountStatus
}

// Session owns the current user.
type Session struct {
	auth Authenticator

	mu      sync.RWMutex
	user    *model.User
	loading bool
}

// New returns a session that has not started yet.
func New(auth Authenticator) *Session {
	return &Session{auth: auth, loading: true}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{User: s.user, IsLoading: s.loading}
	if s.user != nil {
		st.IsSuperAdmin = s.user.IsSuperAdmin()
		st.AccountStatus = s.user.Account.Status
	}
	return st
}

// Start restores the user from a stored token. An expired or revoked token
// leaves the session signed out without an error.
func (s *Session) Start(ctx context.Context) error {
	if s.auth == nil {
		s.finish(nil)
		return ErrNoAuthenticator
	}
	if !s.auth.IsLoggedIn() {
		s.finish(nil)
		return nil
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.finish(nil)
		if api.IsUnauthorized(err) {
			logger.Info("Stored session is no longer valid")
			return nil
		}
		return err
	}
	s.finish(user)
	logger.Info("Session restored", logger.F("user_id", user.ID))
	return nil
}

// Login signs in and replaces the current user.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if s.auth == nil {
		return ErrNoAuthenticator
	}
	s.setLoading(true)
	user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.setLoading(false)
		return err
	}
	s.finish(user)
	logger.Info("Logged in", logger.F("user_id", user.ID))
	return nil
}

// Logout clears the user. The user is cleared even if the backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	var err error
	if s.auth != nil {
		err = s.auth.Logout(ctx)
	}
	s.finish(nil)
	logger.Info("Logged out")
	return err
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) finish(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
}
