package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/model"
)

// seedAccount loads the demo team into a new account. Rich text passes
// through markup on decode, so stored htmlContent is already sanitized.
func seedAccount(ctx context.Context, db execer, accountID string) error {
	team, err := fixtures.Team()
	if err != nil {
		return err
	}
	people, err := fixtures.People(accountID)
	if err != nil {
		return err
	}

	for i, p := range people {
		m := team.Members[i]
		if _, err := db.ExecContext(ctx, `
			INSERT INTO people (account_id, id, name, timezone, color, status, login_time, login_time_ago, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			accountID, p.ID, p.Name, p.Timezone, p.Color, p.Status, m.LoginTime, m.LoginTimeAgo, i,
		); err != nil {
			return fmt.Errorf("seed person %s: %w", p.ID, err)
		}

		goals, err := json.Marshal(m.Goals)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, `
			INSERT INTO person_goals (account_id, person_id, goals) VALUES ($1, $2, $3)`,
			accountID, m.ID, goals,
		); err != nil {
			return fmt.Errorf("seed goals for %s: %w", m.ID, err)
		}

		for day, plan := range seedWeek(m, team.Daily[m.ID]) {
			raw, err := json.Marshal(plan)
			if err != nil {
				return err
			}
			if _, err := db.ExecContext(ctx, `
				INSERT INTO day_plans (account_id, person_id, day, plan) VALUES ($1, $2, $3, $4)`,
				accountID, m.ID, string(day), raw,
			); err != nil {
				return fmt.Errorf("seed %s plan for %s: %w", day, m.ID, err)
			}
		}
	}
	return nil
}

// seedWeek merges a member's card into their week so the demo day shows
// the card's tasks and checkout.
func seedWeek(m model.TeamMember, week model.WeekPlan) model.WeekPlan {
	out := make(model.WeekPlan, len(week)+1)
	for d, p := range week {
		out[d] = p
	}
	out[fixtures.Today] = model.DayPlan{
		Tasks:           m.Tasks,
		HasCheckedOut:   m.HasCheckedOut,
		CheckoutMessage: m.CheckoutMessage,
		NetWorkTime:     m.NetWorkTime,
	}
	return out
}
