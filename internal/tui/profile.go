package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
)

const (
	resetSentText     = "Password reset link sent! Please check your email."
	resetFailedText   = "Failed to send reset email. Please try again."
	resetNetworkText  = "Network error. Please check your connection and try again."
	resetNoEmailText  = "No email address on file."
	peopleSectionName = "Timeline visibility"
)

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		m.moveCursor(msg, len(m.people))

	case key.Matches(msg, keys.Toggle):
		if m.hidden == nil || m.cursor >= len(m.people) {
			return m, nil
		}
		if err := m.hidden.Toggle(m.people[m.cursor].ID); err != nil {
			logger.Warn("Failed to save visibility", logger.F("error", err))
			m.message = "Could not save visibility: " + err.Error()
		}

	case key.Matches(msg, keys.ShowAll):
		if m.hidden != nil {
			if err := m.hidden.ShowAll(); err != nil {
				m.message = "Could not save visibility: " + err.Error()
			}
		}

	case key.Matches(msg, keys.HideAll):
		if m.hidden != nil {
			ids := make([]string, 0, len(m.people))
			for _, p := range m.people {
				ids = append(ids, p.ID)
			}
			if err := m.hidden.HideAll(ids); err != nil {
				m.message = "Could not save visibility: " + err.Error()
			}
		}

	case key.Matches(msg, keys.Dismiss):
		m.banner = nil

	case key.Matches(msg, keys.Reset):
		email := m.profileEmail()
		if email == "" {
			return m.showBanner(resetNoEmailText, false)
		}
		return m.askConfirm(fmt.Sprintf("Send a password reset link to %s? (y/n)", email), func(m Model) (Model, tea.Cmd) {
			return m, m.requestReset(email)
		})
	}
	return m, nil
}

func (m Model) profileEmail() string {
	if m.myInfo != nil && m.myInfo.Email != nil {
		return *m.myInfo.Email
	}
	if m.session != nil {
		if u := m.session.State().User; u != nil {
			return u.Email
		}
	}
	return ""
}

func (m Model) requestReset(email string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		res, err := backend.ForgotPassword(context.Background(), email)
		return resetResultMsg{result: res, err: err}
	}
}

func (m Model) handleResetResult(msg resetResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		logger.Error("Password reset request failed", logger.F("error", msg.err))
		return m.showBanner(resetNetworkText, false)
	case msg.result.Success:
		return m.showBanner(resetSentText, true)
	default:
		text := msg.result.Message
		if text == "" {
			text = resetFailedText
		}
		return m.showBanner(text, false)
	}
}

// showBanner replaces the banner. A success banner clears itself after
// bannerTimeout; an error banner stays until dismissed.
func (m Model) showBanner(text string, success bool) (Model, tea.Cmd) {
	seq := 1
	if m.banner != nil {
		seq = m.banner.seq + 1
	}
	m.banner = &bannerState{text: text, success: success, seq: seq}
	if !success {
		return m, nil
	}
	return m, tea.Tick(bannerTimeout, func(t time.Time) tea.Msg {
		return clearBannerMsg{seq: seq}
	})
}

func (m Model) renderBanner() string {
	if m.banner == nil {
		return ""
	}
	hint := HelpStyle.Render("  x dismiss")
	if m.banner.success {
		return BannerSuccessStyle.Render("✔ "+m.banner.text) + hint
	}
	return BannerErrorStyle.Render("✖ "+m.banner.text) + hint
}

func (m Model) renderProfile(width int) string {
	var sections []string

	if b := m.renderBanner(); b != "" {
		sections = append(sections, b)
	}

	sections = append(sections, m.renderMyInfo(), m.renderSystemInfo(), m.renderPeopleVisibility(width))
	return strings.Join(sections, "\n\n")
}

func infoLine(label, value string) string {
	return HelpStyle.Render(fmt.Sprintf("%-12s", label)) + " " + value
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (m Model) renderMyInfo() string {
	lines := []string{SectionStyle.Render("Profile")}
	if m.myInfo == nil {
		lines = append(lines, HelpStyle.Render("Loading profile..."))
	} else {
		info := m.myInfo
		lines = append(lines,
			infoLine("Username", info.Username),
			infoLine("Email", orDash(info.Email)),
			infoLine("Role", info.Role),
			infoLine("Joined", orDash(info.JoinedAt)),
			infoLine("Last login", info.LastLogin),
		)
	}
	if m.session != nil {
		if st := m.session.State(); st.User != nil {
			lines = append(lines, infoLine("Account", st.User.Account.Name+" "+StatusBadge(string(st.AccountStatus))))
			if st.IsSuperAdmin {
				lines = append(lines, WarningTextStyle.Render("Super admin"))
			}
		}
	}
	lines = append(lines, HelpStyle.Render("P reset password"))
	return strings.Join(lines, "\n")
}

func (m Model) renderSystemInfo() string {
	lines := []string{SectionStyle.Render("System")}
	if m.systemInfo == nil {
		return strings.Join(append(lines, HelpStyle.Render("Loading system info...")), "\n")
	}
	si := m.systemInfo
	if b := si.BuildInfo; b != nil {
		lines = append(lines,
			infoLine("App", b.AppName),
			infoLine("Version", b.Version),
		)
		if b.Branch != "" {
			lines = append(lines, infoLine("Branch", b.Branch))
		}
		if b.DeploymentTime != "" {
			lines = append(lines, infoLine("Deployed", b.DeploymentTime))
		}
		if b.PipelineURL != nil {
			lines = append(lines, infoLine("Pipeline", linkStyle.Render(*b.PipelineURL)))
		}
	}
	lines = append(lines,
		infoLine("Environment", si.Environment),
		infoLine("Server time", si.ServerTime),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderPeopleVisibility(width int) string {
	var hidden int
	for _, p := range m.people {
		if m.hiddenSet.Has(p.ID) {
			hidden++
		}
	}

	lines := []string{
		SectionStyle.Render(peopleSectionName),
		SuccessTextStyle.Render(fmt.Sprintf("%d Visible on Timeline", len(m.people)-hidden)) + "   " +
			ErrorTextStyle.Render(fmt.Sprintf("%d Hidden from Timeline", hidden)),
	}
	if len(m.people) == 0 {
		lines = append(lines, EmptyState("No people found", "People tracked for your account will appear here.", width))
		return strings.Join(lines, "\n")
	}

	for i, p := range m.people {
		state := SuccessTextStyle.Render("visible")
		if m.hiddenSet.Has(p.ID) {
			state = ErrorTextStyle.Render("Hidden from timeline")
		}
		line := fmt.Sprintf("%s %-20s %s", avatarStyle(p.Color).Render(personInitial(p)), truncate(p.DisplayName(), 20), state)
		if i == m.cursor {
			lines = append(lines, RowSelectedStyle.Render("❯ "+line))
		} else {
			lines = append(lines, RowStyle.Render("  "+line))
		}
	}
	lines = append(lines, HelpStyle.Render("space toggle · S show all · H hide all"))
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func personInitial(p model.Person) string {
	for _, r := range p.DisplayName() {
		return string(r)
	}
	return "?"
}
