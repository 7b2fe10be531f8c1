package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/teamplan/internal/model"
)

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a new account and stores the session
func (c *Client) Register(ctx context.Context, email, password, accountName string) (*model.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"email":        email,
		"password":     password,
		"account_name": accountName,
	}, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return resp.User, c.storeSession(resp)
}

// Login authenticates with email and password and stores the session
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return resp.User, c.storeSession(resp)
}

func (c *Client) storeSession(resp authResponse) error {
	if resp.Token == "" {
		return errors.New("server returned no token")
	}
	c.session = &Session{ServerURL: c.serverURL, Token: resp.Token}
	if resp.User != nil {
		c.session.UserID = resp.User.ID
	}
	return c.saveSession()
}

// Logout revokes the token on the server and clears the local session.
// The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.IsLoggedIn() {
		remoteErr = c.do(ctx, http.MethodPost, "/api/v1/logout", nil, nil, true)
	}
	c.session = &Session{}
	if err := c.saveSession(); err != nil {
		return err
	}
	if remoteErr != nil && !IsUnauthorized(remoteErr) {
		return fmt.Errorf("logout: %w", remoteErr)
	}
	return nil
}

// CurrentUser returns the user owning the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// Result is the {success, message} envelope of the password endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ForgotPassword asks the server to email a reset link. API rejections are
// returned as a Result with Success false; err is set only when no usable
// response arrived.
func (c *Client) ForgotPassword(ctx context.Context, email string) (Result, error) {
	return c.resultCall(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (Result, error) {
	return c.resultCall(ctx, "/auth/reset-password", map[string]string{"token": token, "password": password})
}

func (c *Client) resultCall(ctx context.Context, path string, in interface{}) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, path, in, &res, false)
	var se *StatusError
	if errors.As(err, &se) && se.Code < 500 {
		res = Result{Message: se.Message}
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
