package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/labstack/echo/v4"
)

const (
	joinedAtLayout  = "January 2, 2006"
	lastLoginLayout = "Jan 2, 2006 15:04"
)

// handleMyInfo returns the profile summary of the signed-in user
func (s *Server) handleMyInfo(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var (
		username, email, role string
		accountCreated        sql.NullTime
		createdAt             sql.NullTime
		lastLogin             sql.NullTime
	)
	err := s.db.QueryRowContext(c.Request().Context(), `
		SELECT u.username, u.email, u.role, a.created_at, u.created_at, u.last_login_at
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.id = $1`,
		userID,
	).Scan(&username, &email, &role, &accountCreated, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, buildMyInfo(userID, username, email, role, accountCreated, createdAt, lastLogin))
}

func buildMyInfo(userID, username, email, role string, joined, created, lastLogin sql.NullTime) model.MyInfo {
	info := model.MyInfo{
		UserID:    userID,
		Username:  username,
		Role:      role,
		LastLogin: "Never",
	}
	if email != "" {
		info.Email = &email
	}
	if joined.Valid {
		s := joined.Time.Format(joinedAtLayout)
		info.JoinedAt = &s
	}
	if created.Valid {
		s := created.Time.UTC().Format(time.RFC3339)
		info.CreatedAt = &s
	}
	if lastLogin.Valid {
		info.LastLogin = lastLogin.Time.Format(lastLoginLayout)
	}
	return info
}

// handleSystemInfo reports the build and environment of this server
func (s *Server) handleSystemInfo(c echo.Context) error {
	info := model.SystemInfo{
		ServerTime:  time.Now().UTC().Format(time.RFC3339),
		Environment: s.cfg.Environment,
	}
	if s.cfg.Build.AppName != "" || s.cfg.Build.Version != "" {
		build := s.cfg.Build
		info.BuildInfo = &build
	}
	return c.JSON(http.StatusOK, info)
}

// handlePeople lists the tracked people of the caller's account
func (s *Server) handlePeople(c echo.Context) error {
	accountID := c.Get("account_id").(string)

	rows, err := s.db.QueryContext(c.Request().Context(), `
		SELECT id, name, email, timezone, color, status, details, archived_at, created_at, updated_at
		FROM people
		WHERE account_id = $1
		ORDER BY position, name`,
		accountID,
	)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	people := []model.Person{}
	for rows.Next() {
		p := model.Person{AccountID: accountID}
		var details []byte
		var archived sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Timezone, &p.Color, &p.Status,
			&details, &archived, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("db error", logger.F("error", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &p.Details); err != nil {
				logger.Warn("Ignoring malformed person details", logger.F("person_id", p.ID), logger.F("error", err))
			}
		}
		if archived.Valid {
			p.ArchivedAt = &archived.Time
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"people": people})
}
