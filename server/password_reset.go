package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, resultResponse{Success: false, Message: message})
}

// handleForgotPassword issues a single-use reset token. The response does
// not reveal whether the email is registered.
func (s *Server) handleForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !model.IsValidEmail(email) {
		return failure(c, http.StatusBadRequest, "Please enter a valid email address")
	}

	sent := resultResponse{Success: true, Message: "If that email is registered, a reset link has been sent."}

	ctx := c.Request().Context()
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE email = $1 AND role <> $2`,
		email, model.RoleDisabled,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Debug("Password reset for unknown email")
		return c.JSON(http.StatusOK, sent)
	}
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	token, jti, expiresAt, err := s.tokens.issue(userID, email)
	if err != nil {
		logger.Error("Failed to issue reset token", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (user_id, jti, expires_at)
		VALUES ($1, $2, $3)`,
		userID, jti, expiresAt,
	); err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	// no mailer is configured; development builds log the token instead
	if s.cfg.Environment == "development" {
		logger.Info("Password reset token issued", logger.F("user_id", userID), logger.F("token", token))
	} else {
		logger.Info("Password reset token issued", logger.F("user_id", userID))
	}

	return c.JSON(http.StatusOK, sent)
}

// handleResetPassword consumes a reset token and sets a new password.
// All of the user's sessions are revoked.
func (s *Server) handleResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request")
	}
	if len(req.Password) < minPasswordLength {
		return failure(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	claims, err := s.tokens.parse(req.Token)
	if err != nil {
		return failure(c, http.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	ctx := c.Request().Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}
	defer tx.Rollback()

	var resetID string
	err = tx.QueryRowContext(ctx, `
		UPDATE password_resets SET used = TRUE
		WHERE jti = $1 AND user_id = $2 AND used = FALSE AND expires_at > NOW()
		RETURNING id`,
		claims.ID, claims.Subject,
	).Scan(&resetID)
	if errors.Is(err, sql.ErrNoRows) {
		return failure(c, http.StatusBadRequest, errInvalidResetToken.Error())
	}
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		string(hash), claims.Subject,
	); err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, claims.Subject); err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	if err := tx.Commit(); err != nil {
		logger.Error("db error", logger.F("error", err))
		return failure(c, http.StatusInternalServerError, "internal error")
	}

	logger.Info("Password reset", logger.F("user_id", claims.Subject))
	return c.JSON(http.StatusOK, resultResponse{Success: true, Message: "Password updated. Please log in again."})
}
