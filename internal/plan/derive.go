// Package plan derives goal and task views from team data and implements the
// editable weekly planner.
package plan

import "github.com/existflow/teamplan/internal/model"

// SummaryLimit is how many pending tasks a weekly goal summary lists.
const SummaryLimit = 3

// GoalTasks returns the tasks assigned to goalID, in input order.
func GoalTasks(goalID string, tasks []model.Task) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	return out
}

// IsGoalCompleted is true when the goal has at least one task and every one
// of them is completed. The goal's stored flag is ignored.
func IsGoalCompleted(goalID string, tasks []model.Task) bool {
	n := 0
	for _, t := range tasks {
		if t.GoalID != goalID {
			continue
		}
		if !t.IsCompleted {
			return false
		}
		n++
	}
	return n > 0
}

// UnassignedTasks returns tasks without a goal.
func UnassignedTasks(tasks []model.Task) []model.Task {
	return GoalTasks("", tasks)
}

// Partition splits tasks into completed and incomplete, each keeping input order.
func Partition(tasks []model.Task) (completed, incomplete []model.Task) {
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return completed, incomplete
}

// CompletedFirst orders completed tasks before incomplete ones.
func CompletedFirst(tasks []model.Task) []model.Task {
	done, todo := Partition(tasks)
	out := make([]model.Task, 0, len(tasks))
	out = append(out, done...)
	return append(out, todo...)
}

// WeekTasks concatenates the week's tasks from Monday to Saturday.
func WeekTasks(week model.WeekPlan) []model.Task {
	var out []model.Task
	for _, d := range model.Weekdays {
		out = append(out, week.Day(d).Tasks...)
	}
	return out
}

// WeekGoalTasks is GoalTasks over the whole week, in day order.
func WeekGoalTasks(goalID string, week model.WeekPlan) []model.Task {
	return GoalTasks(goalID, WeekTasks(week))
}

// IsGoalCompletedInWeek applies IsGoalCompleted across the whole week.
func IsGoalCompletedInWeek(goalID string, week model.WeekPlan) bool {
	return IsGoalCompleted(goalID, WeekTasks(week))
}

// GoalSummary is the weekly per-goal digest.
type GoalSummary struct {
	Goal      model.Goal
	Completed bool
	Pending   []model.Task // at most the requested limit, in day order
	More      int          // pending tasks not listed
}

// SummarizeGoal builds the weekly digest for goal. limit <= 0 lists everything.
func SummarizeGoal(goal model.Goal, week model.WeekPlan, limit int) GoalSummary {
	tasks := WeekGoalTasks(goal.ID, week)
	_, pending := Partition(tasks)

	s := GoalSummary{
		Goal:      goal,
		Completed: IsGoalCompleted(goal.ID, tasks),
		Pending:   pending,
	}
	if limit > 0 && len(pending) > limit {
		s.Pending = pending[:limit]
		s.More = len(pending) - limit
	}
	return s
}

// GoalBreakdown is one goal's row on a daily team card.
type GoalBreakdown struct {
	Goal      model.Goal
	Completed bool
	Done      []model.Task
	Remaining int
}

// Breakdown groups a member's tasks under their goals. Tasks whose goal id
// matches no goal are in neither the goal rows nor the unassigned group.
func Breakdown(goals []model.Goal, tasks []model.Task) (rows []GoalBreakdown, unassigned GoalBreakdown) {
	for _, g := range goals {
		done, todo := Partition(GoalTasks(g.ID, tasks))
		rows = append(rows, GoalBreakdown{
			Goal:      g,
			Completed: IsGoalCompleted(g.ID, tasks),
			Done:      done,
			Remaining: len(todo),
		})
	}
	done, todo := Partition(UnassignedTasks(tasks))
	unassigned = GoalBreakdown{Done: done, Remaining: len(todo)}
	return rows, unassigned
}

// MissedCheckout reports whether a day should be flagged: it has tasks,
// nobody checked out, and it is the current day.
func MissedCheckout(day model.DayPlan, d, today model.Weekday) bool {
	return !day.HasCheckedOut && len(day.Tasks) > 0 && d == today
}
