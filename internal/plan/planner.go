package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/teamplan/internal/markup"
	"github.com/existflow/teamplan/internal/model"
)

var (
	ErrUnknownDay  = errors.New("unknown day")
	ErrUnknownGoal = errors.New("unknown goal")
	ErrEmptyTitle  = errors.New("title cannot be empty")
)

// firstID is where both id counters start.
const firstID = 100

// DeletePolicy decides what happens to a deleted goal's tasks.
type DeletePolicy int

const (
	// KeepOrphans leaves the tasks with their now dangling goal id.
	KeepOrphans DeletePolicy = iota
	// UnassignOrphans clears the goal id so the tasks become unassigned.
	UnassignOrphans
	// CascadeOrphans removes the tasks along with the goal.
	CascadeOrphans
)

func (p DeletePolicy) String() string {
	switch p {
	case UnassignOrphans:
		return "unassign"
	case CascadeOrphans:
		return "cascade"
	default:
		return "keep"
	}
}

// ParseDeletePolicy maps "keep", "unassign" or "cascade". Empty is keep.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch s {
	case "", "keep":
		return KeepOrphans, nil
	case "unassign":
		return UnassignOrphans, nil
	case "cascade":
		return CascadeOrphans, nil
	}
	return KeepOrphans, fmt.Errorf("unknown delete policy %q", s)
}

// Option configures a Planner.
type Option func(*Planner)

// WithDeletePolicy selects how DeleteGoal treats the goal's tasks.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(pl *Planner) { pl.policy = p }
}

// Planner holds one person's editable week. Edits live in memory only.
//
// Every mutation replaces the goal slice or the touched day's task slice
// instead of writing into it, so values returned by Goals and Week stay valid
// snapshots.
type Planner struct {
	goals    []model.Goal
	week     model.WeekPlan
	nextTask int
	nextGoal int
	policy   DeletePolicy
}

// NewPlanner seeds a planner. All six days are present afterwards.
func NewPlanner(goals []model.Goal, week model.WeekPlan, opts ...Option) *Planner {
	p := &Planner{
		goals:    append([]model.Goal(nil), goals...),
		week:     make(model.WeekPlan, len(model.Weekdays)),
		nextTask: firstID,
		nextGoal: firstID,
	}
	for _, d := range model.Weekdays {
		p.week[d] = week.Day(d)
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Goals returns the current goal list.
func (p *Planner) Goals() []model.Goal { return p.goals }

// Week returns the current week snapshot.
func (p *Planner) Week() model.WeekPlan { return p.week }

// Policy returns the active delete policy.
func (p *Planner) Policy() DeletePolicy { return p.policy }

func (p *Planner) mintTaskID() string {
	id := fmt.Sprintf("task-%d", p.nextTask)
	p.nextTask++
	return id
}

func (p *Planner) mintGoalID() string {
	id := fmt.Sprintf("goal-%d", p.nextGoal)
	p.nextGoal++
	return id
}

func (p *Planner) hasGoal(id string) bool {
	for _, g := range p.goals {
		if g.ID == id {
			return true
		}
	}
	return false
}

// AddGoal appends a new open goal.
func (p *Planner) AddGoal(title string) (model.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Goal{}, ErrEmptyTitle
	}
	g := model.Goal{ID: p.mintGoalID(), Title: title}

	goals := make([]model.Goal, 0, len(p.goals)+1)
	goals = append(goals, p.goals...)
	p.goals = append(goals, g)
	return g, nil
}

// EditGoal retitles a goal. It reports false when no goal has that id.
func (p *Planner) EditGoal(id, title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, ErrEmptyTitle
	}
	for i, g := range p.goals {
		if g.ID != id {
			continue
		}
		goals := append([]model.Goal(nil), p.goals...)
		goals[i].Title = title
		goals[i].Content = markup.Plain(title)
		p.goals = goals
		return true, nil
	}
	return false, nil
}

// DeleteGoal removes a goal and applies the delete policy to its tasks.
func (p *Planner) DeleteGoal(id string) bool {
	idx := -1
	for i, g := range p.goals {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	goals := make([]model.Goal, 0, len(p.goals)-1)
	goals = append(goals, p.goals[:idx]...)
	p.goals = append(goals, p.goals[idx+1:]...)

	if p.policy == KeepOrphans {
		return true
	}

	week := p.cloneWeek()
	for _, d := range model.Weekdays {
		day := week[d]
		if len(GoalTasks(id, day.Tasks)) == 0 {
			continue
		}
		tasks := make([]model.Task, 0, len(day.Tasks))
		for _, t := range day.Tasks {
			if t.GoalID == id {
				if p.policy == CascadeOrphans {
					continue
				}
				t.GoalID = ""
			}
			tasks = append(tasks, t)
		}
		day.Tasks = tasks
		week[d] = day
	}
	p.week = week
	return true
}

// AddTask appends an open task to day. goalID may be empty.
func (p *Planner) AddTask(day model.Weekday, title, goalID string) (model.Task, error) {
	if !day.Valid() {
		return model.Task{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if goalID != "" && !p.hasGoal(goalID) {
		return model.Task{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goalID)
	}

	t := model.Task{ID: p.mintTaskID(), Title: title, GoalID: goalID}
	p.updateDay(day, func(tasks []model.Task) []model.Task {
		out := make([]model.Task, 0, len(tasks)+1)
		out = append(out, tasks...)
		return append(out, t)
	})
	return t, nil
}

// EditTask retitles a task on day. It reports false when the task is absent.
func (p *Planner) EditTask(day model.Weekday, id, title string) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return false, ErrEmptyTitle
	}
	return p.replaceTask(day, id, func(t *model.Task) {
		t.Title = title
		t.Content = markup.Plain(title)
	}), nil
}

// ToggleTask flips a task's completion.
func (p *Planner) ToggleTask(day model.Weekday, id string) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	return p.replaceTask(day, id, func(t *model.Task) {
		t.IsCompleted = !t.IsCompleted
	}), nil
}

// DeleteTask removes a task from day.
func (p *Planner) DeleteTask(day model.Weekday, id string) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	found := false
	for _, t := range p.week[day].Tasks {
		if t.ID == id {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	p.updateDay(day, func(tasks []model.Task) []model.Task {
		out := make([]model.Task, 0, len(tasks)-1)
		for _, t := range tasks {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	return true, nil
}

func (p *Planner) replaceTask(day model.Weekday, id string, fn func(*model.Task)) bool {
	idx := -1
	for i, t := range p.week[day].Tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	p.updateDay(day, func(tasks []model.Task) []model.Task {
		out := append([]model.Task(nil), tasks...)
		fn(&out[idx])
		return out
	})
	return true
}

// updateDay swaps in a new week map where only day's task slice differs.
func (p *Planner) updateDay(day model.Weekday, fn func([]model.Task) []model.Task) {
	week := p.cloneWeek()
	d := week[day]
	d.Tasks = fn(d.Tasks)
	week[day] = d
	p.week = week
}

func (p *Planner) cloneWeek() model.WeekPlan {
	week := make(model.WeekPlan, len(p.week))
	for k, v := range p.week {
		week[k] = v
	}
	return week
}
