package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/markup"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 4 {
		return s
	}
	return string(r[:max-3]) + "..."
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

var (
	codeStyle = lipgloss.NewStyle().Foreground(Warning)
	linkStyle = lipgloss.NewStyle().Foreground(Info).Underline(true)
)

// renderText draws rich text with terminal styling. base is applied under
// each run's own formatting.
func renderText(t markup.Text, base lipgloss.Style) string {
	var b strings.Builder
	for _, sp := range t.Spans() {
		st := base
		if sp.Code {
			st = st.Inherit(codeStyle)
		}
		if sp.Href != "" {
			st = st.Inherit(linkStyle)
		}
		if sp.Bold {
			st = st.Bold(true)
		}
		if sp.Italic {
			st = st.Italic(true)
		}
		if sp.Underline {
			st = st.Underline(true)
		}
		if sp.Strike {
			st = st.Strikethrough(true)
		}
		b.WriteString(st.Render(sp.Text))
	}
	return b.String()
}
