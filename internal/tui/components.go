package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/model"
)

type badgeConfig struct {
	label string
	icon  string
	color lipgloss.Color
}

var badgeConfigs = map[string]badgeConfig{
	"pending":    {"Pending", "◷", Warning},
	"active":     {"Active", "✔", Completed},
	"suspended":  {"Suspended", "✖", Danger},
	"terminated": {"Terminated", "✖", Neutral},
	"inactive":   {"Inactive", "✖", TextMuted},
	"error":      {"Error", "✖", Danger},
}

// StatusBadge renders an account status. Unknown statuses render as pending.
func StatusBadge(status string) string {
	cfg, ok := badgeConfigs[strings.ToLower(status)]
	if !ok {
		cfg = badgeConfigs["pending"]
	}
	return lipgloss.NewStyle().Foreground(cfg.color).Bold(true).Render(cfg.icon + " " + cfg.label)
}

// EmptyState is the placeholder shown when a list has nothing to show.
func EmptyState(title, description string, width int) string {
	body := lipgloss.NewStyle().Bold(true).Render(title) + "\n" + HelpStyle.Render(description)
	st := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Align(lipgloss.Center).
		Padding(1, 2)
	if width > 4 {
		st = st.Width(width - 2)
	}
	return st.Render(body)
}

// Tab is one entry of a TabBar.
type Tab struct {
	ID    string
	Label string
	Count *int
}

// truncateLabel shortens labels over 8 characters to 6 plus an ellipsis.
func truncateLabel(label string) string {
	r := []rune(label)
	if len(r) > 8 {
		return string(r[:6]) + "..."
	}
	return label
}

// TabBar renders tabs in a row. compact applies label truncation for
// narrow terminals.
func TabBar(tabs []Tab, active string, compact bool) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.Label
		if compact {
			label = truncateLabel(label)
		}
		if t.Count != nil {
			label += " " + HelpStyle.Render("("+strconv.Itoa(*t.Count)+")")
		}
		if t.ID == active {
			parts = append(parts, TabActiveStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// EmailValidation is the hint shown under an email field once it has been
// left. It is empty for blank input or before the field was left.
func EmailValidation(value string, left bool) string {
	if !left || strings.TrimSpace(value) == "" {
		return ""
	}
	if model.IsValidEmail(value) {
		return "Valid email address"
	}
	return "Invalid email address"
}

func renderEmailValidation(value string, left bool) string {
	switch msg := EmailValidation(value, left); msg {
	case "":
		return ""
	case "Valid email address":
		return SuccessTextStyle.Render("✔ " + msg)
	default:
		return ErrorTextStyle.Render("✖ " + msg)
	}
}

// InlineEdit renders an active inline editor with its validation error.
func InlineEdit(input textinput.Model, err error) string {
	s := input.View() + "  " + HelpStyle.Render("enter save · esc cancel")
	if err != nil {
		s += "\n" + ErrorTextStyle.Render(capitalize(err.Error()))
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
