package tui

import (
	"context"
	"errors"
	"time"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/db"
	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
)

// Backend is where the dashboard gets its data. *api.Client implements it.
type Backend interface {
	TeamWeek(ctx context.Context) (*model.TeamWeek, error)
	People(ctx context.Context) ([]model.Person, error)
	MyInfo(ctx context.Context) (*model.MyInfo, error)
	SystemInfo(ctx context.Context) (*model.SystemInfo, error)
	ForgotPassword(ctx context.Context, email string) (api.Result, error)
	Register(ctx context.Context, email, password, accountName string) (*model.User, error)
}

// OfflineBackend serves the bundled demo team.
type OfflineBackend struct{}

func (OfflineBackend) TeamWeek(ctx context.Context) (*model.TeamWeek, error) {
	return fixtures.Team()
}

func (OfflineBackend) People(ctx context.Context) ([]model.Person, error) {
	return fixtures.People("demo")
}

func (OfflineBackend) MyInfo(ctx context.Context) (*model.MyInfo, error) {
	email := "me@example.com"
	joined := fixtures.WeekStart.Format("January 2, 2006")
	return &model.MyInfo{
		UserID:    "me",
		Username:  "me",
		Email:     &email,
		Role:      string(model.RoleManager),
		JoinedAt:  &joined,
		LastLogin: "Today",
	}, nil
}

func (OfflineBackend) SystemInfo(ctx context.Context) (*model.SystemInfo, error) {
	return &model.SystemInfo{
		BuildInfo:   &model.BuildInfo{AppName: "teamplan", Version: "offline"},
		ServerTime:  time.Now().UTC().Format(time.RFC3339),
		Environment: "offline",
	}, nil
}

func (OfflineBackend) ForgotPassword(ctx context.Context, email string) (api.Result, error) {
	if !model.IsValidEmail(email) {
		return api.Result{Message: "Please enter a valid email address"}, nil
	}
	return api.Result{Success: true, Message: "Reset email sent (offline demo)"}, nil
}

func (OfflineBackend) Register(ctx context.Context, email, password, accountName string) (*model.User, error) {
	return nil, errors.New("sign up is not available offline")
}

// SnapshotStore keeps the last good response of a fetch.
type SnapshotStore interface {
	PutSnapshot(name string, v interface{}) error
	GetSnapshot(name string, v interface{}) (time.Time, error)
}

// snapshotBackend falls back to the last stored team week and people list
// when the server cannot be reached.
type snapshotBackend struct {
	Backend
	store SnapshotStore
}

// WithSnapshots wraps b so team and people fetches are cached in store.
func WithSnapshots(b Backend, store SnapshotStore) Backend {
	if store == nil {
		return b
	}
	return &snapshotBackend{Backend: b, store: store}
}

const (
	snapshotTeamWeek = "team_week"
	snapshotPeople   = "people"
)

func (s *snapshotBackend) TeamWeek(ctx context.Context) (*model.TeamWeek, error) {
	week, err := s.Backend.TeamWeek(ctx)
	if err == nil {
		s.put(snapshotTeamWeek, week)
		return week, nil
	}
	var cached model.TeamWeek
	if s.get(snapshotTeamWeek, &cached, err) {
		return &cached, nil
	}
	return nil, err
}

func (s *snapshotBackend) People(ctx context.Context) ([]model.Person, error) {
	people, err := s.Backend.People(ctx)
	if err == nil {
		s.put(snapshotPeople, people)
		return people, nil
	}
	var cached []model.Person
	if s.get(snapshotPeople, &cached, err) {
		return cached, nil
	}
	return nil, err
}

func (s *snapshotBackend) put(name string, v interface{}) {
	if err := s.store.PutSnapshot(name, v); err != nil {
		logger.Warn("Failed to store snapshot", logger.F("name", name), logger.F("error", err))
	}
}

// get loads a snapshot after a failed fetch. Auth failures are not masked.
func (s *snapshotBackend) get(name string, v interface{}, fetchErr error) bool {
	if api.IsUnauthorized(fetchErr) || errors.Is(fetchErr, api.ErrNotLoggedIn) {
		return false
	}
	at, err := s.store.GetSnapshot(name, v)
	if err != nil {
		if !errors.Is(err, db.ErrNoSnapshot) {
			logger.Warn("Failed to read snapshot", logger.F("name", name), logger.F("error", err))
		}
		return false
	}
	logger.Info("Serving cached data", logger.F("name", name), logger.F("fetched_at", at.Format(time.RFC3339)), logger.F("cause", fetchErr))
	return true
}
