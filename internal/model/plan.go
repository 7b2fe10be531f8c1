package model

import "github.com/existflow/teamplan/internal/markup"

// Task is a unit of work. An empty GoalID means the task is unassigned.
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     markup.Text `json:"htmlContent,omitzero"`
	IsCompleted bool        `json:"isCompleted"`
	GoalID      string      `json:"goalId,omitempty"`
}

// Label is the rich content when present, otherwise the title.
func (t Task) Label() markup.Text {
	return t.Content.Or(markup.Plain(t.Title))
}

// Goal groups tasks. IsCompleted as stored is advisory; completion is
// derived from the goal's tasks wherever it is displayed.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     markup.Text `json:"htmlContent,omitzero"`
	IsCompleted bool        `json:"isCompleted"`
}

func (g Goal) Label() markup.Text {
	return g.Content.Or(markup.Plain(g.Title))
}

// CheckoutMessage is the end-of-day note a person leaves.
type CheckoutMessage struct {
	ID        string      `json:"id"`
	Message   markup.Text `json:"message"`
	Timestamp string      `json:"timestamp"`
}

// TeamMember is one person's card on the daily overview.
type TeamMember struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Goals           []Goal           `json:"goals"`
	Tasks           []Task           `json:"tasks"`
	CheckoutMessage *CheckoutMessage `json:"checkoutMessage,omitempty"`
	HasCheckedOut   bool             `json:"hasCheckedOut"`
	AvatarColor     string           `json:"avatarColor"`
	LoginTime       string           `json:"loginTime"`
	LoginTimeAgo    string           `json:"loginTimeAgo"`
	NetWorkTime     string           `json:"netWorkTime,omitempty"`
}

// Initial is the first letter of the name, used as the avatar.
func (m TeamMember) Initial() string {
	for _, r := range m.Name {
		return string(r)
	}
	return "?"
}

// DayPlan is one person's plan for one day.
type DayPlan struct {
	Tasks           []Task           `json:"tasks"`
	HasCheckedOut   bool             `json:"hasCheckedOut"`
	CheckoutMessage *CheckoutMessage `json:"checkoutMessage,omitempty"`
	NetWorkTime     string           `json:"netWorkTime,omitempty"`
}

// WeekPlan maps each planning day to its plan. Missing days are empty.
type WeekPlan map[Weekday]DayPlan

// Day returns the plan for d, or an empty plan.
func (w WeekPlan) Day(d Weekday) DayPlan {
	if w == nil {
		return DayPlan{}
	}
	return w[d]
}

// DailyData maps a person id to their week.
type DailyData map[string]WeekPlan

// TeamWeek is the payload behind the daily and weekly views.
type TeamWeek struct {
	WeekStart string       `json:"weekStart"`
	Members   []TeamMember `json:"members"`
	Daily     DailyData    `json:"daily"`
}
