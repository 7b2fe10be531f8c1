package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/prefs"
)

// bannerTimeout is how long a successful reset banner stays up.
const bannerTimeout = 5 * time.Second

type teamWeekMsg struct {
	week *model.TeamWeek
	err  error
}

type peopleMsg struct {
	people []model.Person
	err    error
}

type myInfoMsg struct {
	info *model.MyInfo
	err  error
}

type systemInfoMsg struct {
	info *model.SystemInfo
	err  error
}

// hiddenChangedMsg carries the hidden set after a preference change
type hiddenChangedMsg struct {
	set prefs.IDSet
}

// refreshedMsg is sent when the background poll fetched a new team week
type refreshedMsg struct {
	week *model.TeamWeek
}

type sessionAction int

const (
	sessionStart sessionAction = iota
	sessionLogin
	sessionLogout
	sessionSignup
)

type sessionMsg struct {
	action sessionAction
	err    error
}

type resetResultMsg struct {
	result api.Result
	err    error
}

type clearBannerMsg struct {
	seq int
}

// pendingConfirm is an action waiting for y/n.
type pendingConfirm struct {
	prompt string
	run    func(Model) (Model, tea.Cmd)
}

// Init starts the first fetches and the background listeners
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchTeamWeek(),
		m.fetchPeople(),
		m.waitForHidden(),
		m.waitForRefresh(),
	}
	if m.session != nil {
		cmds = append(cmds, m.startSession())
	}
	return tea.Batch(cmds...)
}

func (m Model) fetchTeamWeek() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		week, err := backend.TeamWeek(context.Background())
		return teamWeekMsg{week: week, err: err}
	}
}

func (m Model) fetchPeople() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		people, err := backend.People(context.Background())
		return peopleMsg{people: people, err: err}
	}
}

func (m Model) fetchMyInfo() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		info, err := backend.MyInfo(context.Background())
		return myInfoMsg{info: info, err: err}
	}
}

func (m Model) fetchSystemInfo() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		info, err := backend.SystemInfo(context.Background())
		return systemInfoMsg{info: info, err: err}
	}
}

func (m Model) startSession() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return sessionMsg{action: sessionStart, err: s.Start(context.Background())}
	}
}

// waitForHidden listens for hidden people changes
func (m Model) waitForHidden() tea.Cmd {
	if m.hidden == nil {
		return nil
	}
	ch := m.hiddenChan
	return func() tea.Msg {
		return hiddenChangedMsg{set: <-ch}
	}
}

// waitForRefresh listens for background team week updates
func (m Model) waitForRefresh() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	ch := m.refreshChan
	return func() tea.Msg {
		return refreshedMsg{week: <-ch}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case teamWeekMsg:
		if msg.err != nil {
			logger.Warn("Failed to load team week", logger.F("error", msg.err))
			return m, nil
		}
		m.week = msg.week
		m.clampCursor()
		return m, nil

	case peopleMsg:
		if msg.err != nil {
			logger.Warn("Failed to load people", logger.F("error", msg.err))
			return m, nil
		}
		m.people = msg.people
		m.clampCursor()
		return m, nil

	case myInfoMsg:
		if msg.err != nil {
			logger.Warn("Failed to load profile", logger.F("error", msg.err))
			return m, nil
		}
		m.myInfo = msg.info
		return m, nil

	case systemInfoMsg:
		if msg.err != nil {
			logger.Warn("Failed to load system info", logger.F("error", msg.err))
			return m, nil
		}
		m.systemInfo = msg.info
		return m, nil

	case hiddenChangedMsg:
		m.hiddenSet = msg.set
		m.clampCursor()
		return m, m.waitForHidden()

	case refreshedMsg:
		if msg.week != nil {
			m.week = msg.week
			m.clampCursor()
		}
		return m, m.waitForRefresh()

	case sessionMsg:
		return m.handleSessionMsg(msg)

	case resetResultMsg:
		return m.handleResetResult(msg)

	case clearBannerMsg:
		if m.banner != nil && m.banner.success && m.banner.seq == msg.seq {
			m.banner = nil
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			m.stop()
			return m, tea.Quit
		}

		switch m.mode {
		case ModeEdit:
			return m.updatePlannerEdit(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeForm:
			return m.updateAuthForm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m *Model) stop() {
	if m.refresh != nil {
		m.refresh.Stop()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.stop()
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		return m.navigate(m.adjacentTab(1))

	case key.Matches(msg, keys.ShiftTab):
		return m.navigate(m.adjacentTab(-1))

	case len(msg.Runes) == 1 && msg.Runes[0] >= '1' && int(msg.Runes[0]-'1') < len(navTabs):
		return m.navigate(navTabs[msg.Runes[0]-'1'].route)

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.message = "Refreshing..."
		if m.refresh != nil {
			m.refresh.Trigger()
		}
		return m, tea.Batch(m.fetchTeamWeek(), m.fetchPeople())

	case key.Matches(msg, keys.Logout):
		return m.logout()

	case key.Matches(msg, keys.Login) && m.route != RouteMe && m.route != RouteProfile:
		return m.navigate(RouteLogin)

	case key.Matches(msg, keys.Signup) && m.route != RouteMe && m.route != RouteProfile:
		return m.navigate(RouteSignup)
	}

	switch m.route {
	case RouteDaily:
		m.moveCursor(msg, len(m.visibleMembers()))
	case RouteWeekly:
		m.moveCursor(msg, len(m.visibleMembers()))
	case RouteMe:
		return m.handlePlannerKeys(msg)
	case RouteProfile:
		return m.handleProfileKeys(msg)
	}
	return m, nil
}

func (m *Model) moveCursor(msg tea.KeyMsg, n int) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	}
}

func (m *Model) clampCursor() {
	var n int
	switch m.route {
	case RouteDaily, RouteWeekly:
		n = len(m.visibleMembers())
	case RouteProfile:
		n = len(m.people)
	default:
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) adjacentTab(step int) Route {
	idx := 0
	for i, t := range navTabs {
		if t.route == m.route {
			idx = i
			break
		}
	}
	idx = (idx + step + len(navTabs)) % len(navTabs)
	return navTabs[idx].route
}

// navigate switches pages. Pages that load data on mount fetch it here.
func (m Model) navigate(r Route) (tea.Model, tea.Cmd) {
	logger.Debug("Navigate", logger.F("from", string(m.route)), logger.F("to", string(r)))
	m.route = r
	m.cursor = 0
	m.message = ""

	switch r {
	case RouteProfile:
		return m, tea.Batch(m.fetchMyInfo(), m.fetchSystemInfo(), m.fetchPeople())
	case RouteLogin, RouteSignup:
		m.authForm = newAuthForm()
		m.authForm.signup = r == RouteSignup
		m.mode = ModeForm
		return m, m.authForm.focus(0)
	}
	return m, nil
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if !m.signedIn() {
		m.message = "Not logged in"
		return m, nil
	}
	s := m.session
	return m, func() tea.Msg {
		return sessionMsg{action: sessionLogout, err: s.Logout(context.Background())}
	}
}

func (m Model) handleSessionMsg(msg sessionMsg) (tea.Model, tea.Cmd) {
	switch msg.action {
	case sessionStart:
		if msg.err != nil {
			logger.Warn("Failed to restore session", logger.F("error", msg.err))
		}
		return m, nil

	case sessionLogin, sessionSignup:
		m.authForm.submitting = false
		if msg.err != nil {
			m.authForm.err = msg.err.Error()
			return m, nil
		}
		m.mode = ModeNormal
		m.route = RouteHome
		m.cursor = 0
		m.message = "Welcome"
		if m.signedIn() {
			m.message = "Welcome, " + m.session.State().User.Email
		}
		return m, tea.Batch(m.fetchTeamWeek(), m.fetchPeople())

	case sessionLogout:
		if msg.err != nil {
			logger.Warn("Logout did not reach the server", logger.F("error", msg.err))
		}
		m.myInfo = nil
		m.message = "Logged out"
		return m, nil
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	m.confirm = nil
	m.mode = ModeNormal
	if pending != nil && key.Matches(msg, keys.Confirm) {
		return pending.run(m)
	}
	m.message = "Canceled"
	return m, nil
}

func (m Model) askConfirm(prompt string, run func(Model) (Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	m.confirm = &pendingConfirm{prompt: prompt, run: run}
	m.mode = ModeConfirm
	return m, nil
}
