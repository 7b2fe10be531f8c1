package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

func TestTeam_GoalReferencesResolve(t *testing.T) {
	team, err := Team()
	require.NoError(t, err)
	require.Len(t, team.Members, 8)

	for _, m := range team.Members {
		goals := map[string]bool{}
		for _, g := range m.Goals {
			goals[g.ID] = true
		}
		for _, tk := range m.Tasks {
			if tk.GoalID != "" {
				assert.True(t, goals[tk.GoalID], "%s task %s", m.Name, tk.ID)
			}
		}
		for _, d := range model.Weekdays {
			for _, tk := range team.Daily[m.ID].Day(d).Tasks {
				if tk.GoalID != "" {
					assert.True(t, goals[tk.GoalID], "%s %s task %s", m.Name, d, tk.ID)
				}
			}
		}
	}
}

func TestTeam_MarkupIsSanitized(t *testing.T) {
	team, err := Team()
	require.NoError(t, err)
	till := team.Members[0]
	assert.Equal(t, `Review <a href="#">PR #142</a> authentication flow`, till.Tasks[0].Content.HTML())
}

func TestTeam_WeeklySummaryTruncates(t *testing.T) {
	team, err := Team()
	require.NoError(t, err)

	abel := team.Members[1]
	require.Equal(t, "Abel", abel.Name)
	s := plan.SummarizeGoal(abel.Goals[1], team.Daily[abel.ID], plan.SummaryLimit)
	assert.Len(t, s.Pending, 3)
	assert.Equal(t, 2, s.More)
}

func TestMe(t *testing.T) {
	member, week, err := Me()
	require.NoError(t, err)
	assert.Equal(t, "me", member.ID)
	assert.Len(t, member.Goals, 3)
	assert.Len(t, week[model.Monday].Tasks, 2)
	assert.True(t, plan.IsGoalCompletedInWeek("1", week))
	assert.False(t, plan.IsGoalCompletedInWeek("3", week))
}

func TestPeople(t *testing.T) {
	people, err := People("acct-1")
	require.NoError(t, err)
	require.Len(t, people, 8)
	assert.Equal(t, "Till", people[0].Name)
	assert.Equal(t, "acct-1", people[7].AccountID)
}

func TestTeam_ReturnsFreshCopies(t *testing.T) {
	a, err := Team()
	require.NoError(t, err)
	a.Members[0].Name = "changed"

	b, err := Team()
	require.NoError(t, err)
	assert.Equal(t, "Till", b.Members[0].Name)
}
