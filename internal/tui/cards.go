package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/config"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

// CardLayout orders the sections of a team member card.
type CardLayout int

const (
	// TaskBreakdownFirst shows goals and tasks, then the checkout.
	TaskBreakdownFirst CardLayout = iota
	// CheckoutFirst leads with the checkout message.
	CheckoutFirst
)

// ParseCardLayout maps the config value; anything unknown is the default.
func ParseCardLayout(s string) CardLayout {
	if s == config.LayoutCheckoutFirst {
		return CheckoutFirst
	}
	return TaskBreakdownFirst
}

const (
	iconDone    = "✔"
	iconTodo    = "○"
	iconTrophy  = "🏆"
	iconMessage = "✉"
	iconWarning = "⚠"
)

var (
	doneTextStyle = lipgloss.NewStyle().Foreground(Completed).Strikethrough(true)
	todoTextStyle = lipgloss.NewStyle().Foreground(Text)
	moreStyle     = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
)

// renderTaskLine draws a task with its completion treatment.
func renderTaskLine(t model.Task) string {
	if t.IsCompleted {
		return lipgloss.NewStyle().Foreground(Completed).Render(iconDone) + " " + renderText(t.Label(), doneTextStyle)
	}
	return HelpStyle.Render(iconTodo) + " " + renderText(t.Label(), todoTextStyle)
}

func renderGoalTitle(g model.Goal, completed bool) string {
	s := renderText(g.Label(), lipgloss.NewStyle().Bold(true))
	if completed {
		s += " " + lipgloss.NewStyle().Foreground(Trophy).Render(iconTrophy)
	}
	return s
}

func renderBreakdownRow(title string, row plan.GoalBreakdown) string {
	var b strings.Builder
	b.WriteString(title)
	for _, t := range row.Done {
		b.WriteString("\n  " + renderTaskLine(t))
	}
	if row.Remaining > 0 {
		b.WriteString("\n  " + moreStyle.Render(fmt.Sprintf("%s %d more todo", iconTodo, row.Remaining)))
	}
	return b.String()
}

// renderBreakdown lists each goal with its finished tasks and a count of the
// rest, then the same for goalless tasks.
func renderBreakdown(m model.TeamMember) string {
	rows, unassigned := plan.Breakdown(m.Goals, m.Tasks)
	var parts []string
	for _, r := range rows {
		parts = append(parts, renderBreakdownRow(renderGoalTitle(r.Goal, r.Completed), r))
	}
	if len(unassigned.Done) > 0 || unassigned.Remaining > 0 {
		parts = append(parts, renderBreakdownRow(HelpStyle.Render("Other tasks"), unassigned))
	}
	if len(parts) == 0 {
		return HelpStyle.Render("No tasks today")
	}
	return strings.Join(parts, "\n")
}

func renderCheckout(msg *model.CheckoutMessage, netWorkTime string) string {
	header := lipgloss.NewStyle().Foreground(Primary).Bold(true).Render(iconMessage + " CHECKOUT")
	meta := msg.Timestamp
	if netWorkTime != "" {
		meta = SuccessTextStyle.Render(netWorkTime) + " " + meta
	}
	return header + "  " + HelpStyle.Render(meta) + "\n" + renderText(msg.Message, lipgloss.NewStyle().Foreground(TextMuted))
}

// renderMemberCard draws one person on the daily overview.
func renderMemberCard(m model.TeamMember, layout CardLayout, width int, selected bool) string {
	header := avatarStyle(m.AvatarColor).Render(m.Initial()) + " " +
		lipgloss.NewStyle().Bold(true).Render(m.Name)
	if m.LoginTime != "" {
		header += "  " + HelpStyle.Render(fmt.Sprintf("in %s · %s", m.LoginTime, m.LoginTimeAgo))
	}
	if m.NetWorkTime != "" {
		header += "  " + SuccessTextStyle.Render(m.NetWorkTime)
	}

	breakdown := renderBreakdown(m)
	var checkout string
	if m.HasCheckedOut && m.CheckoutMessage != nil {
		checkout = renderCheckout(m.CheckoutMessage, "")
	}

	sections := []string{header}
	switch {
	case checkout == "":
		sections = append(sections, breakdown)
	case layout == CheckoutFirst:
		sections = append(sections, checkout, breakdown)
	default:
		sections = append(sections, breakdown, checkout)
	}

	style := CardStyle
	if selected {
		style = CardSelectedStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(sections, "\n\n"))
}

// renderGoalSummary draws a goal's weekly digest with "+N more".
func renderGoalSummary(s plan.GoalSummary) string {
	var b strings.Builder
	b.WriteString(renderGoalTitle(s.Goal, s.Completed))
	for _, t := range s.Pending {
		b.WriteString("\n  " + renderTaskLine(t))
	}
	if s.More > 0 {
		b.WriteString("\n  " + moreStyle.Render(fmt.Sprintf("+%d more", s.More)))
	}
	return b.String()
}

// renderDayCard draws one day of a person's week.
func renderDayCard(weekStart time.Time, d model.Weekday, day model.DayPlan, today model.Weekday, width int) string {
	title := SectionStyle.Render(model.DayHeader(weekStart, d))
	body := dayCardBody(day, d, today)

	style := CardStyle
	if d == today {
		style = CardSelectedStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(title + "\n" + body)
}

func dayCardBody(day model.DayPlan, d, today model.Weekday) string {
	if len(day.Tasks) == 0 && (!day.HasCheckedOut || day.CheckoutMessage == nil) {
		return HelpStyle.Render("No tasks planned")
	}

	var lines []string
	if plan.MissedCheckout(day, d, today) {
		lines = append(lines, ErrorTextStyle.Render(iconWarning+" Missed Checkout"))
	}
	if day.HasCheckedOut && day.CheckoutMessage != nil {
		lines = append(lines, renderCheckout(day.CheckoutMessage, day.NetWorkTime))
	}
	for _, t := range plan.CompletedFirst(day.Tasks) {
		lines = append(lines, renderTaskLine(t))
	}
	return strings.Join(lines, "\n")
}
