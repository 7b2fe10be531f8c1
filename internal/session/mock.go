package session

import (
	"context"
	"time"

	"github.com/existflow/teamplan/internal/model"
)

// Mock is an Authenticator that accepts any credentials and always returns
// the same development user.
type Mock struct {
	User     model.User
	loggedIn bool
}

// NewMock returns a Mock that starts signed in.
func NewMock() *Mock {
	now := time.Date(2024, 9, 2, 8, 45, 0, 0, time.UTC)
	return &Mock{
		loggedIn: true,
		User: model.User{
			ID:        "me",
			AccountID: "acct-1",
			Email:     "you@teamplan.dev",
			Username:  "you",
			Role:      model.RoleManager,
			CreatedAt: now,
			UpdatedAt: now,
			Account: model.Account{
				ID:     "acct-1",
				Name:   "Teamplan",
				Status: model.AccountActive,
			},
		},
	}
}

func (m *Mock) Login(ctx context.Context, email, password string) (*model.User, error) {
	m.loggedIn = true
	u := m.User
	return &u, nil
}

func (m *Mock) Logout(ctx context.Context) error {
	m.loggedIn = false
	return nil
}

func (m *Mock) CurrentUser(ctx context.Context) (*model.User, error) {
	u := m.User
	return &u, nil
}

func (m *Mock) IsLoggedIn() bool { return m.loggedIn }
