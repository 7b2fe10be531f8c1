// Package fixtures bundles the demo team used offline and to seed the server.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/teamplan/internal/model"
)

//go:embed team.json
var teamJSON []byte

//go:embed me.json
var meJSON []byte

// Today is the weekday the demo data treats as the current day.
const Today = model.Wednesday

// WeekStart is the Monday of the demo week.
var WeekStart = time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

// Team decodes a fresh copy of the demo team week.
func Team() (*model.TeamWeek, error) {
	var week model.TeamWeek
	if err := json.Unmarshal(teamJSON, &week); err != nil {
		return nil, fmt.Errorf("failed to decode team fixture: %w", err)
	}
	return &week, nil
}

// Me decodes the planner seed for the signed-in user.
func Me() (model.TeamMember, model.WeekPlan, error) {
	var seed struct {
		Member model.TeamMember `json:"member"`
		Week   model.WeekPlan   `json:"week"`
	}
	if err := json.Unmarshal(meJSON, &seed); err != nil {
		return model.TeamMember{}, nil, fmt.Errorf("failed to decode planner fixture: %w", err)
	}
	return seed.Member, seed.Week, nil
}

// People lists the demo team as people-endpoint records.
func People(accountID string) ([]model.Person, error) {
	team, err := Team()
	if err != nil {
		return nil, err
	}
	people := make([]model.Person, 0, len(team.Members))
	for _, m := range team.Members {
		people = append(people, model.Person{
			ID:        m.ID,
			AccountID: accountID,
			Name:      m.Name,
			Color:     m.AvatarColor,
			Status:    model.PersonActive,
			Timezone:  "UTC",
			CreatedAt: WeekStart,
			UpdatedAt: WeekStart,
		})
	}
	return people, nil
}
