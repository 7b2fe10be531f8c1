package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/model"
)

type fakeAuth struct {
	user       *model.User
	loggedIn   bool
	loginErr   error
	currentErr error
	logoutErr  error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*model.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.logoutErr
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*model.User, error) {
	return f.user, f.currentErr
}

func (f *fakeAuth) IsLoggedIn() bool { return f.loggedIn }

func admin() *model.User {
	return &model.User{
		ID:      "u1",
		Role:    model.RoleSuperAdmin,
		Account: model.Account{Status: model.AccountPending},
	}
}

func TestSession_StartsLoading(t *testing.T) {
	s := New(&fakeAuth{})
	st := s.State()
	assert.True(t, st.IsLoading)
	assert.Nil(t, st.User)
}

func TestSession_StartRestoresUser(t *testing.T) {
	s := New(&fakeAuth{user: admin(), loggedIn: true})
	require.NoError(t, s.Start(context.Background()))

	st := s.State()
	assert.False(t, st.IsLoading)
	require.NotNil(t, st.User)
	assert.True(t, st.IsSuperAdmin)
	assert.Equal(t, model.AccountPending, st.AccountStatus)
}

func TestSession_StartWithoutToken(t *testing.T) {
	s := New(&fakeAuth{user: admin()})
	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, s.State().User)
	assert.False(t, s.State().IsLoading)
}

func TestSession_StartWithRevokedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, writeSession(path, srv.URL))
	client, err := api.NewClient(srv.URL, api.WithSessionPath(path))
	require.NoError(t, err)

	s := New(client)
	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, s.State().User)
}

func TestSession_LoginAndLogout(t *testing.T) {
	auth := &fakeAuth{user: &model.User{ID: "u2", Role: model.RoleUser}}
	s := New(auth)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Login(context.Background(), "a@b.co", "pw"))
	st := s.State()
	require.NotNil(t, st.User)
	assert.False(t, st.IsSuperAdmin)

	auth.logoutErr = errors.New("offline")
	assert.Error(t, s.Logout(context.Background()))
	assert.Nil(t, s.State().User)
}

func TestSession_LoginFailureKeepsSignedOut(t *testing.T) {
	s := New(&fakeAuth{loginErr: errors.New("bad password")})
	require.NoError(t, s.Start(context.Background()))

	assert.Error(t, s.Login(context.Background(), "a@b.co", "pw"))
	assert.Nil(t, s.State().User)
	assert.False(t, s.State().IsLoading)
}

func TestSession_NoAuthenticator(t *testing.T) {
	s := New(nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrNoAuthenticator)
	assert.False(t, s.State().IsLoading)
	assert.ErrorIs(t, s.Login(context.Background(), "a", "b"), ErrNoAuthenticator)
}

func TestMock(t *testing.T) {
	s := New(NewMock())
	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, s.State().User)
	assert.Equal(t, model.AccountActive, s.State().AccountStatus)

	require.NoError(t, s.Logout(context.Background()))
	assert.Nil(t, s.State().User)
	require.NoError(t, s.Login(context.Background(), "any", "thing"))
	assert.NotNil(t, s.State().User)
}
