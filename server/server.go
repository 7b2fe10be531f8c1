package server

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

// Config holds server settings
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Environment string
	SeedDemo    bool
	Build       model.BuildInfo
	// Today overrides the current weekday for the team view; empty uses the clock.
	Today model.Weekday
}

// Server is the teamplan API server
type Server struct {
	db     *sql.DB
	echo   *echo.Echo
	cfg    Config
	tokens *resetTokens
}

// New creates a new server
func New(cfg Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := newServer(db, cfg)

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func newServer(db *sql.DB, cfg Config) *Server {
	s := &Server{
		db:     db,
		cfg:    cfg,
		tokens: newResetTokens([]byte(cfg.JWTSecret)),
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// Password reset (public)
	auth := e.Group("/auth")
	auth.POST("/forgot-password", s.handleForgotPassword)
	auth.POST("/reset-password", s.handleResetPassword)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)
	protected.GET("/profile/my-info", s.handleMyInfo)
	protected.GET("/profile/system-info", s.handleSystemInfo)
	protected.GET("/people", s.handlePeople)
	protected.GET("/team/week", s.handleTeamWeek)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	logger.Info("Server listening", logger.F("addr", addr), logger.F("environment", s.cfg.Environment))
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
