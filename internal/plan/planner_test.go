package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/teamplan/internal/model"
)

func TestNewPlanner_NormalizesDays(t *testing.T) {
	p := NewPlanner(nil, nil)
	require.Len(t, p.Week(), 6)
	for _, d := range model.Weekdays {
		_, ok := p.Week()[d]
		assert.True(t, ok, d)
		assert.Empty(t, p.Week()[d].Tasks)
	}
}

func TestPlanner_RoundTrip(t *testing.T) {
	p := NewPlanner(nil, nil)

	added, err := p.AddTask(model.Monday, "X", "")
	require.NoError(t, err)
	assert.Equal(t, "task-100", added.ID)

	ok, err := p.EditTask(model.Monday, added.ID, "Y")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.ToggleTask(model.Monday, added.ID)
	require.NoError(t, err)
	require.True(t, ok)

	mon := p.Week()[model.Monday].Tasks
	require.Len(t, mon, 1)
	assert.Equal(t, "Y", mon[0].Title)
	assert.Equal(t, "Y", mon[0].Content.HTML())
	assert.True(t, mon[0].IsCompleted)

	for _, d := range model.Weekdays[1:] {
		assert.Empty(t, p.Week()[d].Tasks, d)
	}
}

func TestPlanner_EditedTextIsNotMarkup(t *testing.T) {
	p := NewPlanner(nil, nil)
	added, err := p.AddTask(model.Friday, "a", "")
	require.NoError(t, err)

	_, err = p.EditTask(model.Friday, added.ID, "<b>bold</b>")
	require.NoError(t, err)
	got := p.Week()[model.Friday].Tasks[0]
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", got.Content.HTML())
	assert.Equal(t, "<b>bold</b>", got.Label().String())
}

func TestPlanner_DeleteGoalKeepsDanglingReference(t *testing.T) {
	goals := []model.Goal{{ID: "G", Title: "Goal"}}
	week := model.WeekPlan{model.Tuesday: {Tasks: []model.Task{{ID: "T", Title: "t", GoalID: "G"}}}}
	p := NewPlanner(goals, week)

	assert.True(t, p.DeleteGoal("G"))
	assert.Empty(t, p.Goals())

	tasks := p.Week()[model.Tuesday].Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "G", tasks[0].GoalID)
	assert.Empty(t, UnassignedTasks(tasks))
	assert.False(t, p.DeleteGoal("G"))
}

func TestPlanner_DeletePolicies(t *testing.T) {
	goals := []model.Goal{{ID: "G"}, {ID: "H"}}
	week := model.WeekPlan{
		model.Monday: {Tasks: []model.Task{{ID: "a", GoalID: "G"}, {ID: "b", GoalID: "H"}, {ID: "c"}}},
	}

	unassign := NewPlanner(goals, week, WithDeletePolicy(UnassignOrphans))
	unassign.DeleteGoal("G")
	mon := unassign.Week()[model.Monday].Tasks
	require.Len(t, mon, 3)
	assert.Equal(t, "", mon[0].GoalID)
	assert.Equal(t, "H", mon[1].GoalID)

	cascade := NewPlanner(goals, week, WithDeletePolicy(CascadeOrphans))
	cascade.DeleteGoal("G")
	mon = cascade.Week()[model.Monday].Tasks
	require.Len(t, mon, 2)
	assert.Equal(t, "b", mon[0].ID)
	assert.Equal(t, "c", mon[1].ID)

	assert.Equal(t, "G", week[model.Monday].Tasks[0].GoalID)
}

func TestParseDeletePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want DeletePolicy
	}{
		{"", KeepOrphans},
		{"keep", KeepOrphans},
		{"unassign", UnassignOrphans},
		{"cascade", CascadeOrphans},
	}
	for _, tt := range tests {
		got, err := ParseDeletePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.in != "" {
			assert.Equal(t, tt.in, got.String())
		}
	}

	_, err := ParseDeletePolicy("shred")
	assert.Error(t, err)
}

func TestPlanner_StructuralSharing(t *testing.T) {
	week := model.WeekPlan{
		model.Monday:  {Tasks: []model.Task{{ID: "m"}}},
		model.Tuesday: {Tasks: []model.Task{{ID: "t"}}},
	}
	p := NewPlanner(nil, week)
	before := p.Week()

	_, err := p.ToggleTask(model.Monday, "m")
	require.NoError(t, err)
	after := p.Week()

	assert.False(t, before[model.Monday].Tasks[0].IsCompleted)
	assert.True(t, after[model.Monday].Tasks[0].IsCompleted)
	assert.Same(t, &before[model.Tuesday].Tasks[0], &after[model.Tuesday].Tasks[0])
}

func TestPlanner_Goals(t *testing.T) {
	p := NewPlanner([]model.Goal{{ID: "1", Title: "Existing"}}, nil)

	g, err := p.AddGoal("  Launch  ")
	require.NoError(t, err)
	assert.Equal(t, "goal-100", g.ID)
	assert.Equal(t, "Launch", g.Title)
	assert.False(t, g.IsCompleted)

	g2, err := p.AddGoal("Second")
	require.NoError(t, err)
	assert.Equal(t, "goal-101", g2.ID)

	ok, err := p.EditGoal("1", "Renamed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Renamed", p.Goals()[0].Title)
	assert.Equal(t, "Renamed", p.Goals()[0].Content.String())

	ok, err = p.EditGoal("missing", "x")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.AddGoal("   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestPlanner_AddTaskValidation(t *testing.T) {
	p := NewPlanner([]model.Goal{{ID: "g"}}, nil)

	_, err := p.AddTask("Sunday", "x", "")
	assert.ErrorIs(t, err, ErrUnknownDay)

	_, err = p.AddTask(model.Monday, "x", "nope")
	assert.ErrorIs(t, err, ErrUnknownGoal)

	tk, err := p.AddTask(model.Monday, "x", "g")
	require.NoError(t, err)
	assert.Equal(t, "g", tk.GoalID)
}

func TestPlanner_DeleteTask(t *testing.T) {
	p := NewPlanner(nil, model.WeekPlan{model.Thursday: {Tasks: []model.Task{{ID: "a"}, {ID: "b"}}}})

	ok, err := p.DeleteTask(model.Thursday, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, p.Week()[model.Thursday].Tasks, 1)
	assert.Equal(t, "b", p.Week()[model.Thursday].Tasks[0].ID)

	ok, err = p.DeleteTask(model.Thursday, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
