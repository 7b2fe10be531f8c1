package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	sessionTTL        = 30 * 24 * time.Hour
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountName string `json:"account_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      *model.User `json:"user"`
}

// handleRegister creates an account with its first user, a manager
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !model.IsValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
	}
	if len(req.Password) < minPasswordLength {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
	}

	accountName := strings.TrimSpace(req.AccountName)
	if accountName == "" {
		accountName = usernameFromEmail(req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	ctx := c.Request().Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer tx.Rollback()

	var accountID string
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO accounts (name, status) VALUES ($1, $2) RETURNING id`,
		accountName, model.AccountActive,
	).Scan(&accountID); err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	var userID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (account_id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		accountID, usernameFromEmail(req.Email), req.Email, string(hash), model.RoleManager,
	).Scan(&userID)
	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
		}
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	if s.cfg.SeedDemo {
		if err := seedAccount(ctx, tx, accountID); err != nil {
			logger.Error("Failed to seed demo team", logger.F("account_id", accountID), logger.F("error", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("User registered", logger.F("user_id", userID), logger.F("account_id", accountID))
	return s.respondWithSession(c, userID)
}

// handleLogin handles email and password login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	var userID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = $1 AND role <> $2`,
		strings.ToLower(strings.TrimSpace(req.Email)), model.RoleDisabled,
	).Scan(&userID, &passwordHash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		logger.Warn("Failed to record login time", logger.F("user_id", userID), logger.F("error", err))
	}

	logger.Info("User logged in", logger.F("user_id", userID))
	return s.respondWithSession(c, userID)
}

func (s *Server) respondWithSession(c echo.Context, userID string) error {
	ctx := c.Request().Context()
	token, expiresAt, err := s.createSession(ctx, userID)
	if err != nil {
		logger.Error("session error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      user,
	})
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.loadUser(c.Request().Context(), c.Get("user_id").(string))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, user)
}

// handleLogout revokes the token used for this request
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("token").(string)
	if _, err := s.db.ExecContext(c.Request().Context(), `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) loadUser(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	var verified sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.account_id, u.email, u.username, u.role, u.email_verified_at,
		       u.created_at, u.updated_at, a.id, a.name, a.status
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.id = $1`,
		userID,
	).Scan(&u.ID, &u.AccountID, &u.Email, &u.Username, &u.Role, &verified,
		&u.CreatedAt, &u.UpdatedAt, &u.Account.ID, &u.Account.Name, &u.Account.Status)
	if err != nil {
		return nil, err
	}
	if verified.Valid {
		u.EmailVerifiedAt = &verified.Time
	}
	return &u, nil
}

// createSession creates a new session for a user
func (s *Server) createSession(ctx context.Context, userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	expiresAt := time.Now().Add(sessionTTL)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)

	return token, expiresAt, err
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
