package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/existflow/teamplan/internal/markup"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

func TestStatusBadge(t *testing.T) {
	assert.Contains(t, StatusBadge("active"), "Active")
	assert.Contains(t, StatusBadge("TERMINATED"), "Terminated")
	assert.Contains(t, StatusBadge("archived"), "Pending")
	assert.Contains(t, StatusBadge(""), "Pending")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Profile", truncateLabel("Profile"))
	assert.Equal(t, "Accounts", truncateLabel("Accounts"))
	assert.Equal(t, "Dashbo...", truncateLabel("Dashboard"))
}

func TestTabBar_CompactTruncatesLabels(t *testing.T) {
	n := 4
	tabs := []Tab{{ID: "a", Label: "Dashboard", Count: &n}, {ID: "b", Label: "Home"}}

	full := TabBar(tabs, "a", false)
	assert.Contains(t, full, "Dashboard")
	assert.Contains(t, full, "(4)")

	compact := TabBar(tabs, "a", true)
	assert.Contains(t, compact, "Dashbo...")
	assert.Contains(t, compact, "Home")
}

func TestEmailValidation(t *testing.T) {
	tests := []struct {
		value string
		left  bool
		want  string
	}{
		{"bad", false, ""},
		{"   ", true, ""},
		{"bad", true, "Invalid email address"},
		{"a@b", true, "Invalid email address"},
		{" me@example.com ", true, "Valid email address"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmailValidation(tt.value, tt.left), "%q left=%v", tt.value, tt.left)
	}
}

func task(id, title, goalID string, done bool) model.Task {
	return model.Task{ID: id, Title: title, GoalID: goalID, IsCompleted: done}
}

func TestRenderBreakdown(t *testing.T) {
	goals := []model.Goal{{ID: "g1", Title: "Launch"}}
	m := model.TeamMember{
		Goals: goals,
		Tasks: []model.Task{
			task("1", "Write copy", "g1", true),
			task("2", "Book venue", "g1", false),
			task("3", "Send invites", "g1", false),
			task("4", "Order food", "g1", false),
			task("5", "Inbox zero", "", false),
		},
	}

	out := renderBreakdown(m)
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "Write copy")
	assert.Contains(t, out, "3 more todo")
	assert.NotContains(t, out, "Book venue")
	assert.Contains(t, out, "Other tasks")
	assert.Contains(t, out, "1 more todo")

	assert.Contains(t, renderBreakdown(model.TeamMember{}), "No tasks today")
}

func TestRenderGoalTitle_TrophyOnlyWhenComplete(t *testing.T) {
	g := model.Goal{ID: "g1", Title: "Launch"}
	assert.Contains(t, renderGoalTitle(g, true), iconTrophy)
	assert.NotContains(t, renderGoalTitle(g, false), iconTrophy)
}

func TestRenderGoalSummary_ListsLimitThenMore(t *testing.T) {
	g := model.Goal{ID: "g1", Title: "Launch"}
	week := model.WeekPlan{
		model.Monday:  {Tasks: []model.Task{task("1", "One", "g1", false), task("2", "Two", "g1", false)}},
		model.Tuesday: {Tasks: []model.Task{task("3", "Three", "g1", false), task("4", "Four", "g1", false), task("5", "Five", "g1", false)}},
	}

	out := renderGoalSummary(plan.SummarizeGoal(g, week, plan.SummaryLimit))
	assert.Contains(t, out, "Three")
	assert.NotContains(t, out, "Four")
	assert.Contains(t, out, "+2 more")
}

func TestDayCardBody(t *testing.T) {
	assert.Contains(t, dayCardBody(model.DayPlan{}, model.Monday, model.Wednesday), "No tasks planned")

	open := model.DayPlan{Tasks: []model.Task{task("1", "Deploy", "", false), task("2", "Review", "", true)}}
	today := dayCardBody(open, model.Wednesday, model.Wednesday)
	assert.Contains(t, today, "Missed Checkout")
	assert.Less(t, strings.Index(today, "Review"), strings.Index(today, "Deploy"), "completed tasks come first")

	assert.NotContains(t, dayCardBody(open, model.Tuesday, model.Wednesday), "Missed Checkout")

	checkedOut := model.DayPlan{
		HasCheckedOut:   true,
		CheckoutMessage: &model.CheckoutMessage{ID: "c1", Message: markup.Plain("All done"), Timestamp: "17:30"},
		NetWorkTime:     "7h 45m",
	}
	body := dayCardBody(checkedOut, model.Wednesday, model.Wednesday)
	assert.Contains(t, body, "All done")
	assert.Contains(t, body, "7h 45m")
	assert.NotContains(t, body, "No tasks planned")
}

func TestRenderDayCard_Header(t *testing.T) {
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	out := renderDayCard(start, model.Tuesday, model.DayPlan{}, model.Wednesday, 40)
	assert.Contains(t, out, model.DayHeader(start, model.Tuesday))
}

func TestRenderMemberCard_LayoutOrder(t *testing.T) {
	m := model.TeamMember{
		ID:              "1",
		Name:            "Till",
		Goals:           []model.Goal{{ID: "g1", Title: "Launch"}},
		Tasks:           []model.Task{task("1", "Write copy", "g1", true)},
		HasCheckedOut:   true,
		CheckoutMessage: &model.CheckoutMessage{ID: "c1", Message: markup.Plain("Wrapped up"), Timestamp: "17:30"},
	}

	first := renderMemberCard(m, TaskBreakdownFirst, 80, false)
	assert.Less(t, strings.Index(first, "Launch"), strings.Index(first, "CHECKOUT"))

	checkout := renderMemberCard(m, CheckoutFirst, 80, false)
	assert.Less(t, strings.Index(checkout, "CHECKOUT"), strings.Index(checkout, "Launch"))

	m.HasCheckedOut = false
	assert.NotContains(t, renderMemberCard(m, CheckoutFirst, 80, false), "CHECKOUT")
}

func TestParseCardLayout(t *testing.T) {
	assert.Equal(t, CheckoutFirst, ParseCardLayout("checkout-first"))
	assert.Equal(t, TaskBreakdownFirst, ParseCardLayout("task-breakdown-first"))
	assert.Equal(t, TaskBreakdownFirst, ParseCardLayout("sideways"))
}
