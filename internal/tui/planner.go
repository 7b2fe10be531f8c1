package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

const (
	targetNewGoal = "new-goal"
	targetNewTask = "new-task:"
	targetGoal    = "goal:"
	targetTask    = "task:"
)

type rowKind int

const (
	rowGoal rowKind = iota
	rowTask
)

type plannerRow struct {
	kind rowKind
	id   string
}

// plannerState is the /me page: the signed-in person's editable week.
type plannerState struct {
	planner       *plan.Planner
	me            model.TeamMember
	day           model.Weekday
	cursor        int
	editor        *plan.RowEditor
	input         textinput.Model
	confirmDelete bool
}

func newPlannerState(p *plan.Planner, me model.TeamMember, today model.Weekday, confirmDelete bool, input textinput.Model) plannerState {
	return plannerState{
		planner:       p,
		me:            me,
		day:           today,
		editor:        plan.NewRowEditor(plan.EditorOptions{}),
		input:         input,
		confirmDelete: confirmDelete,
	}
}

// rows lists goals, then the selected day's tasks.
func (s plannerState) rows() []plannerRow {
	goals := s.planner.Goals()
	tasks := s.planner.Week().Day(s.day).Tasks
	rows := make([]plannerRow, 0, len(goals)+len(tasks))
	for _, g := range goals {
		rows = append(rows, plannerRow{kind: rowGoal, id: g.ID})
	}
	for _, t := range tasks {
		rows = append(rows, plannerRow{kind: rowTask, id: t.ID})
	}
	return rows
}

func (s plannerState) selected() (plannerRow, bool) {
	rows := s.rows()
	if s.cursor < 0 || s.cursor >= len(rows) {
		return plannerRow{}, false
	}
	return rows[s.cursor], true
}

func (s plannerState) goal(id string) (model.Goal, bool) {
	for _, g := range s.planner.Goals() {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}

func (s plannerState) task(id string) (model.Task, bool) {
	for _, t := range s.planner.Week().Day(s.day).Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *plannerState) clamp() {
	n := len(s.rows())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *plannerState) shiftDay(step int) {
	i := s.day.Index() + step
	if i < 0 || i >= len(model.Weekdays) {
		return
	}
	s.day = model.Weekdays[i]
	s.clamp()
}

func (m Model) handlePlannerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.planner
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.rows())-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Left):
		p.shiftDay(-1)
	case key.Matches(msg, keys.Right):
		p.shiftDay(1)

	case key.Matches(msg, keys.AddGoal):
		return m.beginEdit(targetNewGoal, "", "New goal...")

	case key.Matches(msg, keys.AddTask):
		goalID := ""
		if row, ok := p.selected(); ok && row.kind == rowGoal {
			goalID = row.id
		}
		return m.beginEdit(targetNewTask+goalID, "", fmt.Sprintf("New task for %s...", p.day))

	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		row, ok := p.selected()
		if !ok {
			return m, nil
		}
		if row.kind == rowGoal {
			g, _ := p.goal(row.id)
			return m.beginEdit(targetGoal+row.id, g.Title, "Goal title...")
		}
		t, _ := p.task(row.id)
		return m.beginEdit(targetTask+row.id, t.Title, "Task title...")

	case key.Matches(msg, keys.Done):
		row, ok := p.selected()
		if !ok || row.kind != rowTask {
			return m, nil
		}
		if _, err := p.planner.ToggleTask(p.day, row.id); err != nil {
			m.message = err.Error()
		}

	case key.Matches(msg, keys.Delete):
		row, ok := p.selected()
		if !ok {
			return m, nil
		}
		if p.confirmDelete {
			what := "task"
			if row.kind == rowGoal {
				what = "goal"
			}
			return m.askConfirm(fmt.Sprintf("Delete this %s? (y/n)", what), func(m Model) (Model, tea.Cmd) {
				m.deleteRow(row)
				return m, nil
			})
		}
		m.deleteRow(row)
	}
	return m, nil
}

func (m *Model) deleteRow(row plannerRow) {
	p := &m.planner
	switch row.kind {
	case rowGoal:
		p.editor.Drop(targetGoal + row.id)
		if p.planner.DeleteGoal(row.id) {
			logger.Debug("Goal deleted", logger.F("goal_id", row.id), logger.F("policy", p.planner.Policy().String()))
			m.message = "Goal deleted"
		}
	case rowTask:
		p.editor.Drop(targetTask + row.id)
		if ok, err := p.planner.DeleteTask(p.day, row.id); err != nil {
			m.message = err.Error()
		} else if ok {
			m.message = "Task deleted"
		}
	}
	p.clamp()
}

func (m Model) beginEdit(target, current, placeholder string) (tea.Model, tea.Cmd) {
	p := &m.planner
	p.editor.Begin(target, current)
	p.input.SetValue(current)
	p.input.Placeholder = placeholder
	p.input.Focus()
	p.input.CursorEnd()
	m.mode = ModeEdit
	return m, textinput.Blink
}

// updatePlannerEdit feeds keys to the inline editor. Enter commits, esc
// cancels, and a failed validation keeps the editor open.
func (m Model) updatePlannerEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.planner
	outcome, target, value := p.editor.HandleKey(msg.String())
	switch outcome {
	case plan.Committed:
		p.input.Blur()
		m.mode = ModeNormal
		m.applyEdit(target, value)
		return m, nil
	case plan.Canceled:
		p.input.Blur()
		m.mode = ModeNormal
		return m, nil
	case plan.Invalid:
		return m, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.editor.SetValue(p.input.Value())
	return m, cmd
}

func (m *Model) applyEdit(target, value string) {
	p := &m.planner
	var err error
	switch {
	case target == targetNewGoal:
		_, err = p.planner.AddGoal(value)
		if err == nil {
			p.cursor = len(p.planner.Goals()) - 1
			m.message = "Goal added"
		}
	case strings.HasPrefix(target, targetNewTask):
		_, err = p.planner.AddTask(p.day, value, strings.TrimPrefix(target, targetNewTask))
		if err == nil {
			p.cursor = len(p.rows()) - 1
			m.message = "Task added"
		}
	case strings.HasPrefix(target, targetGoal):
		_, err = p.planner.EditGoal(strings.TrimPrefix(target, targetGoal), value)
	case strings.HasPrefix(target, targetTask):
		_, err = p.planner.EditTask(p.day, strings.TrimPrefix(target, targetTask), value)
	}
	if err != nil {
		logger.Warn("Planner edit rejected", logger.F("target", target), logger.F("error", err))
		m.message = err.Error()
	}
}

func (m Model) renderPlanner(width int) string {
	p := m.planner
	var b strings.Builder

	name := p.me.Name
	if name == "" {
		name = "My week"
	}
	b.WriteString(SectionStyle.Render(name) + "\n")

	var days []string
	for _, d := range model.Weekdays {
		label := d.Short()
		if d == p.day {
			days = append(days, TabActiveStyle.Render(label))
		} else {
			days = append(days, TabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, days...) + "  " +
		HelpStyle.Render(model.DayHeader(m.weekStart(), p.day)) + "\n\n")

	editing := m.mode == ModeEdit
	week := p.planner.Week()
	row := 0

	b.WriteString(SectionStyle.Render("Goals") + "\n")
	goals := p.planner.Goals()
	if len(goals) == 0 {
		b.WriteString(HelpStyle.Render("  No goals yet. Press g to add one.") + "\n")
	}
	for _, g := range goals {
		line := renderGoalTitle(g, plan.IsGoalCompletedInWeek(g.ID, week))
		if editing && p.editor.Target() == targetGoal+g.ID {
			line = InlineEdit(p.input, p.editor.Err())
		}
		b.WriteString(m.plannerRowLine(line, row) + "\n")
		row++
	}
	if editing && p.editor.Target() == targetNewGoal {
		b.WriteString("  " + InlineEdit(p.input, p.editor.Err()) + "\n")
	}

	b.WriteString("\n" + SectionStyle.Render("Tasks for "+string(p.day)) + "\n")
	tasks := week.Day(p.day).Tasks
	if len(tasks) == 0 {
		b.WriteString(HelpStyle.Render("  No tasks planned. Press a to add one.") + "\n")
	}
	for _, t := range tasks {
		line := renderTaskLine(t)
		if t.GoalID != "" {
			if g, ok := p.goal(t.GoalID); ok {
				line += "  " + HelpStyle.Render("· "+truncate(g.Title, 30))
			}
		}
		if editing && p.editor.Target() == targetTask+t.ID {
			line = InlineEdit(p.input, p.editor.Err())
		}
		b.WriteString(m.plannerRowLine(line, row) + "\n")
		row++
	}
	if editing && strings.HasPrefix(p.editor.Target(), targetNewTask) {
		b.WriteString("  " + InlineEdit(p.input, p.editor.Err()) + "\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) plannerRowLine(line string, row int) string {
	if row == m.planner.cursor && m.mode != ModeEdit {
		return RowSelectedStyle.Render("❯ " + line)
	}
	return RowStyle.Render("  " + line)
}
