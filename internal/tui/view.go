package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)

	var body string
	switch m.mode {
	case ModeHelp:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderHelp())
	case ModeConfirm:
		prompt := ""
		if m.confirm != nil {
			prompt = m.confirm.prompt
		}
		modal := ModalStyle.Render(lipgloss.NewStyle().Bold(true).Render(prompt) + "\n\n" + HelpStyle.Render("y confirm · any other key cancels"))
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars(" "))
	default:
		body = PageStyle.Width(m.width).Render(m.renderPage(m.width - 4))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("Teamplan")
	if m.signedIn() {
		title += "  " + HelpStyle.Render(m.session.State().User.Email)
	} else if m.session != nil && m.session.State().IsLoading {
		title += "  " + HelpStyle.Render("Signing in...")
	}

	tabs := make([]Tab, 0, len(navTabs))
	for _, t := range navTabs {
		tab := Tab{ID: string(t.route), Label: t.label}
		if t.route == RouteDaily && m.week != nil {
			n := len(m.visibleMembers())
			tab.Count = &n
		}
		tabs = append(tabs, tab)
	}
	bar := TabBar(tabs, string(m.route), m.width < 80)
	divider := lipgloss.NewStyle().Foreground(Border).Render(repeat("─", m.width))
	return title + "\n" + bar + "\n" + divider
}

func (m Model) renderPage(width int) string {
	switch m.route {
	case RouteHome:
		return m.renderHome(width)
	case RouteDaily:
		return m.renderDaily(width)
	case RouteWeekly:
		return m.renderWeekly(width)
	case RouteMe:
		return m.renderPlanner(width)
	case RouteProfile:
		return m.renderProfile(width)
	case RouteLogin, RouteSignup:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, m.renderAuthForm())
	default:
		return EmptyState("Not available here", "This page is only available in the web app.", width)
	}
}

func (m Model) renderHome(width int) string {
	var lines []string
	if m.signedIn() {
		u := m.session.State().User
		lines = append(lines, SectionStyle.Render("Welcome back"), u.Email+"  "+HelpStyle.Render(u.Account.Name))
	} else {
		lines = append(lines, SectionStyle.Render("Welcome"), HelpStyle.Render("Press i to log in or u to sign up."))
	}
	lines = append(lines, "", HelpStyle.Render("Today is ")+string(m.today))

	if m.week == nil {
		lines = append(lines, HelpStyle.Render("Loading team..."))
		return strings.Join(lines, "\n")
	}

	members := m.visibleMembers()
	var checkedOut, planned int
	for _, mem := range members {
		if mem.HasCheckedOut {
			checkedOut++
		}
		if len(mem.Tasks) > 0 {
			planned++
		}
	}
	lines = append(lines,
		fmt.Sprintf("%d people on the timeline, %d hidden", len(members), len(m.week.Members)-len(members)),
		fmt.Sprintf("%d planned today, %d checked out", planned, checkedOut),
	)
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDaily(width int) string {
	if m.week == nil {
		return HelpStyle.Render("Loading team...")
	}
	members := m.visibleMembers()
	if len(members) == 0 {
		return EmptyState("No one to show", "Everyone is hidden. Show people again from your profile.", width)
	}

	cols := 1
	if width >= 100 {
		cols = 2
	}
	cardWidth := width / cols

	var rows []string
	for i := 0; i < len(members); i += cols {
		var cards []string
		for j := i; j < i+cols && j < len(members); j++ {
			cards = append(cards, renderMemberCard(members[j], m.layout, cardWidth, j == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderWeekly(width int) string {
	if m.week == nil {
		return HelpStyle.Render("Loading team...")
	}
	members := m.visibleMembers()
	if len(members) == 0 {
		return EmptyState("No one to show", "Everyone is hidden. Show people again from your profile.", width)
	}
	if m.cursor >= len(members) {
		return ""
	}

	var names []string
	for i, mem := range members {
		if i == m.cursor {
			names = append(names, TabActiveStyle.Render(mem.Name))
		} else {
			names = append(names, TabStyle.Render(mem.Name))
		}
	}

	mem := members[m.cursor]
	week := m.week.Daily[mem.ID]

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, names...) + "\n\n")

	b.WriteString(SectionStyle.Render("Goals this week") + "\n")
	if len(mem.Goals) == 0 {
		b.WriteString(HelpStyle.Render("No goals set") + "\n")
	}
	for _, g := range mem.Goals {
		b.WriteString(renderGoalSummary(plan.SummarizeGoal(g, week, plan.SummaryLimit)) + "\n")
	}
	b.WriteString("\n")

	cols := 3
	if width < 90 {
		cols = 1
	}
	cardWidth := width / cols
	start := m.weekStart()
	var rows []string
	for i := 0; i < len(model.Weekdays); i += cols {
		var cards []string
		for j := i; j < i+cols && j < len(model.Weekdays); j++ {
			d := model.Weekdays[j]
			cards = append(cards, renderDayCard(start, d, week.Day(d), m.today, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return b.String()
}

func (m Model) renderStatusBar() string {
	help := "tab:page  1-7:jump  r:refresh  ?:help  q:quit"
	switch m.route {
	case RouteMe:
		help = "g:goal  a:task  e:edit  x:done  d:del  h/l:day  ?:help"
	case RouteProfile:
		help = "space:show/hide  S/H:all  P:reset password  ?:help"
	}
	if m.mode == ModeEdit {
		help = "enter:save  esc:cancel"
	}
	if m.message != "" {
		help = m.message
	}

	right := "offline"
	if m.signedIn() {
		right = "L:logout"
	} else if m.session != nil {
		right = "i:login"
	}
	if m.refresh != nil && m.refresh.IsPending() {
		right = "Refreshing..."
	}

	if avail := m.width - lipgloss.Width(help) - lipgloss.Width(right) - 2; avail > 0 {
		help += strings.Repeat(" ", avail) + right
	} else {
		help += " " + right
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderHelp() string {
	sections := []struct {
		title string
		lines [][2]string
	}{
		{"Navigation", [][2]string{
			{"tab/shift+tab", "Next/previous page"},
			{"1-7", "Jump to page"},
			{"j/k", "Move selection"},
			{"r", "Refresh"},
		}},
		{"My Week", [][2]string{
			{"h/l", "Previous/next day"},
			{"g", "Add goal"},
			{"a", "Add task"},
			{"e/enter", "Edit"},
			{"x", "Toggle done"},
			{"d", "Delete"},
		}},
		{"Profile", [][2]string{
			{"space", "Show/hide person"},
			{"S/H", "Show all/hide all"},
			{"P", "Send password reset"},
			{"x", "Dismiss banner"},
		}},
		{"Account", [][2]string{
			{"i/u", "Log in/sign up"},
			{"L", "Log out"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Keyboard Shortcuts") + "\n")
	for _, s := range sections {
		b.WriteString("\n" + SectionStyle.Render(s.title) + "\n")
		for _, l := range s.lines {
			b.WriteString(fmt.Sprintf("  %-14s %s\n", l[0], l[1]))
		}
	}
	b.WriteString("\n" + HelpStyle.Render("Press any key to close"))
	return ModalStyle.Render(b.String())
}
