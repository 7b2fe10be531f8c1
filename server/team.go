package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/labstack/echo/v4"
)

type memberRow struct {
	ID           string
	Name         string
	Color        string
	LoginTime    string
	LoginTimeAgo string
}

// handleTeamWeek returns the team overview for the current week
func (s *Server) handleTeamWeek(c echo.Context) error {
	accountID := c.Get("account_id").(string)
	ctx := c.Request().Context()

	members, err := s.loadMembers(ctx, accountID)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	goals, err := s.loadGoals(ctx, accountID)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	daily, err := s.loadDailyData(ctx, accountID)
	if err != nil {
		logger.Error("db error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	now := time.Now()
	today := s.cfg.Today
	if !today.Valid() {
		today = planningDay(now)
	}

	return c.JSON(http.StatusOK, assembleTeamWeek(members, goals, daily, today, mondayOf(now)))
}

// assembleTeamWeek builds the overview: each member card shows the plan
// for today, and Daily carries every stored day.
func assembleTeamWeek(members []memberRow, goals map[string][]model.Goal, daily model.DailyData, today model.Weekday, weekStart time.Time) *model.TeamWeek {
	week := &model.TeamWeek{
		WeekStart: weekStart.Format("2006-01-02"),
		Members:   make([]model.TeamMember, 0, len(members)),
		Daily:     model.DailyData{},
	}

	for _, m := range members {
		plan := daily[m.ID].Day(today)
		card := model.TeamMember{
			ID:              m.ID,
			Name:            m.Name,
			Goals:           goals[m.ID],
			Tasks:           plan.Tasks,
			CheckoutMessage: plan.CheckoutMessage,
			HasCheckedOut:   plan.HasCheckedOut,
			AvatarColor:     m.Color,
			LoginTime:       m.LoginTime,
			LoginTimeAgo:    m.LoginTimeAgo,
			NetWorkTime:     plan.NetWorkTime,
		}
		if card.Goals == nil {
			card.Goals = []model.Goal{}
		}
		if card.Tasks == nil {
			card.Tasks = []model.Task{}
		}
		week.Members = append(week.Members, card)

		if wp, ok := daily[m.ID]; ok && len(wp) > 0 {
			week.Daily[m.ID] = wp
		}
	}

	return week
}

// planningDay maps Sunday onto the Saturday before it.
func planningDay(t time.Time) model.Weekday {
	if d, ok := model.WeekdayOf(t); ok {
		return d
	}
	return model.Saturday
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Server) loadMembers(ctx context.Context, accountID string) ([]memberRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, login_time, login_time_ago
		FROM people
		WHERE account_id = $1 AND archived_at IS NULL AND status <> $2
		ORDER BY position, name`,
		accountID, model.PersonIgnored,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []memberRow
	for rows.Next() {
		var m memberRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Color, &m.LoginTime, &m.LoginTimeAgo); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Server) loadGoals(ctx context.Context, accountID string) (map[string][]model.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, goals FROM person_goals WHERE account_id = $1`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make(map[string][]model.Goal)
	for rows.Next() {
		var personID string
		var raw []byte
		if err := rows.Scan(&personID, &raw); err != nil {
			return nil, err
		}
		var g []model.Goal
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("goals for %s: %w", personID, err)
		}
		goals[personID] = g
	}
	return goals, rows.Err()
}

func (s *Server) loadDailyData(ctx context.Context, accountID string) (model.DailyData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, day, plan FROM day_plans WHERE account_id = $1`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := model.DailyData{}
	for rows.Next() {
		var personID, day string
		var raw []byte
		if err := rows.Scan(&personID, &day, &raw); err != nil {
			return nil, err
		}
		d := model.Weekday(day)
		if !d.Valid() {
			logger.Warn("Skipping plan for unknown day", logger.F("person_id", personID), logger.F("day", day))
			continue
		}
		var plan model.DayPlan
		if err := json.Unmarshal(raw, &plan); err != nil {
			return nil, fmt.Errorf("plan for %s on %s: %w", personID, day, err)
		}
		if daily[personID] == nil {
			daily[personID] = model.WeekPlan{}
		}
		daily[personID][d] = plan
	}
	return daily, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
