package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/existflow/teamplan/internal/config"
	"github.com/existflow/teamplan/internal/logger"
)

// ErrNotLoggedIn is returned by calls that need a session token.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the persisted login state
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
}

// Client talks to the teamplan API
type Client struct {
	serverURL   string
	session     *Session
	sessionPath string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithSessionPath overrides ~/.teamplan/session.json.
func WithSessionPath(path string) ClientOption {
	return func(c *Client) { c.sessionPath = path }
}

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a client for serverURL and restores any saved session
func NewClient(serverURL string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	if c.sessionPath == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		c.sessionPath = filepath.Join(dir, "session.json")
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "teamplan-api",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				logger.F("breaker", name), logger.F("from", from.String()), logger.F("to", to.String()))
		},
	})

	c.loadSession()
	return c, nil
}

func (c *Client) loadSession() {
	c.session = &Session{}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, c.session); err != nil {
		logger.Warn("Ignoring unreadable session file", logger.F("path", c.sessionPath), logger.F("error", err))
		c.session = &Session{}
		return
	}
	// a session belongs to the server that issued it
	if c.session.ServerURL != "" && c.session.ServerURL != c.serverURL {
		c.session = &Session{}
	}
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// ServerURL returns the API base URL
func (c *Client) ServerURL() string { return c.serverURL }

// IsLoggedIn returns true if a session token is stored
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// do sends one request through the circuit breaker and decodes a JSON body
// into out. Non-2xx responses become *StatusError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, auth bool) error {
	if auth && !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	requestID := uuid.NewString()
	log := logger.WithFields(logger.F("request_id", requestID), logger.F("method", method), logger.F("path", path))

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if auth {
			req.Header.Set("Authorization", "Bearer "+c.session.Token)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		log.Debug("API response", logger.F("status", resp.StatusCode), logger.F("duration_ms", time.Since(start).Milliseconds()))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newStatusError(resp.StatusCode, respBody)
		}
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil, nil
	})
	if err != nil {
		log.Error("API request failed", logger.F("error", err))
	}
	return err
}
