package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/db"
	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
	"github.com/existflow/teamplan/internal/prefs"
	"github.com/existflow/teamplan/internal/session"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

// send feeds msgs through Update and returns the model and the last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		next, c := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
		cmd = c
	}
	return m, cmd
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	m, _ = send(t, m, msgs...)
	return m
}

// resetBackend records reset requests and answers with a fixed result.
type resetBackend struct {
	OfflineBackend
	result api.Result
	err    error
	emails []string
}

func (b *resetBackend) ForgotPassword(ctx context.Context, email string) (api.Result, error) {
	b.emails = append(b.emails, email)
	return b.result, b.err
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Hidden == nil {
		opts.Hidden = prefs.NewHiddenPeople(prefs.NewMemoryStore())
	}
	if opts.Today == "" {
		opts.Today = fixtures.Today
	}
	m := NewModel(opts)

	team, err := fixtures.Team()
	require.NoError(t, err)
	people, err := fixtures.People("demo")
	require.NoError(t, err)
	return press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, teamWeekMsg{week: team}, peopleMsg{people: people})
}

func TestNavigation_TabsAndNumberKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Equal(t, RouteHome, m.Route())

	m = press(t, m, tabKey)
	assert.Equal(t, RouteDaily, m.Route())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, RouteAccount, m.Route(), "shift+tab wraps around")

	m = press(t, m, runes("3"))
	assert.Equal(t, RouteWeekly, m.Route())

	m = press(t, m, runes("9"))
	assert.Equal(t, RouteWeekly, m.Route(), "keys past the last tab are ignored")

	m = press(t, m, runes("6"))
	assert.Contains(t, m.View(), "Not available here")
}

func TestNavigation_HelpClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, runes("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(t, m, runes("z"))
	assert.Equal(t, ModeNormal, m.mode)
}

func TestDaily_ShowsVisibleMembersOnly(t *testing.T) {
	hidden := prefs.NewHiddenPeople(prefs.NewMemoryStore())
	m := newTestModel(t, Options{Hidden: hidden})
	m = press(t, m, runes("2"))
	require.Len(t, m.visibleMembers(), 8)
	assert.Contains(t, m.View(), "Till")

	require.NoError(t, hidden.Toggle("1"))
	m = press(t, m, m.waitForHidden()())

	assert.Len(t, m.visibleMembers(), 7)
	assert.NotContains(t, m.View(), "Till")
	assert.Contains(t, m.View(), "Abel")
}

func TestDaily_CursorStaysInRange(t *testing.T) {
	hidden := prefs.NewHiddenPeople(prefs.NewMemoryStore())
	m := newTestModel(t, Options{Hidden: hidden})
	m = press(t, m, runes("2"))
	for i := 0; i < 20; i++ {
		m = press(t, m, runes("j"))
	}
	assert.Equal(t, 7, m.cursor)

	var ids []string
	for _, mem := range m.week.Members[:6] {
		ids = append(ids, mem.ID)
	}
	require.NoError(t, hidden.HideAll(ids))
	m = press(t, m, m.waitForHidden()())
	assert.Equal(t, 1, m.cursor)
}

func TestWeekly_RendersSelectedMember(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, runes("3"), runes("j"))

	view := m.View()
	assert.Contains(t, view, "Goals this week")
	assert.Contains(t, view, "Mon, Sept 2")
	assert.Contains(t, view, "Sat, Sept 7")
}

func TestRefresh_ReplacesTeamWeek(t *testing.T) {
	m := newTestModel(t, Options{})
	week := &model.TeamWeek{WeekStart: "2024-09-09", Members: []model.TeamMember{{ID: "x", Name: "Solo"}}}

	m, _ = send(t, m, refreshedMsg{week: week})
	assert.Equal(t, "2024-09-09", m.week.WeekStart)

	m = press(t, m, teamWeekMsg{err: errors.New("boom")})
	assert.Equal(t, "2024-09-09", m.week.WeekStart, "a failed fetch keeps the last data")
}

func plannerModel(t *testing.T, confirmDelete bool) Model {
	t.Helper()
	m := newTestModel(t, Options{
		Planner:       plan.NewPlanner(nil, nil, plan.WithDeletePolicy(plan.UnassignOrphans)),
		Me:            model.TeamMember{ID: "me", Name: "Me"},
		ConfirmDelete: confirmDelete,
	})
	return press(t, m, runes("4"))
}

func TestPlanner_AddGoalAndTask(t *testing.T) {
	m := plannerModel(t, false)
	require.Equal(t, RouteMe, m.Route())

	m = press(t, m, runes("g"))
	require.Equal(t, ModeEdit, m.mode)
	m = press(t, m, runes("Ship v1"), enterKey)
	assert.Equal(t, ModeNormal, m.mode)

	goals := m.planner.planner.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, "Ship v1", goals[0].Title)
	assert.Equal(t, 0, m.planner.cursor)

	m = press(t, m, runes("a"), runes("Write docs"), enterKey)
	tasks := m.planner.planner.Week().Day(fixtures.Today).Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write docs", tasks[0].Title)
	assert.Equal(t, goals[0].ID, tasks[0].GoalID)
	assert.Equal(t, 1, m.planner.cursor)

	m = press(t, m, runes("x"))
	assert.True(t, m.planner.planner.Week().Day(fixtures.Today).Tasks[0].IsCompleted)
	assert.Contains(t, m.View(), iconTrophy)
}

func TestPlanner_EmptyCommitKeepsEditorOpen(t *testing.T) {
	m := plannerModel(t, false)

	m = press(t, m, runes("g"), runes("   "), enterKey)
	assert.Equal(t, ModeEdit, m.mode)
	assert.ErrorIs(t, m.planner.editor.Err(), plan.ErrEmptyValue)
	assert.Contains(t, m.View(), "This field cannot be empty")

	m = press(t, m, escKey)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.planner.planner.Goals())
}

func TestPlanner_EditAndDayNavigation(t *testing.T) {
	m := plannerModel(t, false)
	m = press(t, m, runes("a"), runes("Draft"), enterKey)

	m = press(t, m, runes("e"))
	require.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "Draft", m.planner.input.Value())
	m = press(t, m, runes("!"), enterKey)
	assert.Equal(t, "Draft!", m.planner.planner.Week().Day(fixtures.Today).Tasks[0].Title)

	m = press(t, m, runes("l"))
	assert.Equal(t, model.Thursday, m.planner.day)
	assert.Contains(t, m.View(), "No tasks planned. Press a to add one.")

	m = press(t, m, runes("l"), runes("l"), runes("l"))
	assert.Equal(t, model.Saturday, m.planner.day, "stops at the last day")
}

func TestPlanner_DeleteAsksFirst(t *testing.T) {
	m := plannerModel(t, true)
	m = press(t, m, runes("g"), runes("Goal"), enterKey)
	m = press(t, m, runes("a"), runes("Task"), enterKey)

	m = press(t, m, runes("d"))
	require.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.View(), "Delete this task?")

	m = press(t, m, runes("n"))
	assert.Len(t, m.planner.planner.Week().Day(fixtures.Today).Tasks, 1)

	m = press(t, m, runes("d"), runes("y"))
	assert.Empty(t, m.planner.planner.Week().Day(fixtures.Today).Tasks)
	assert.Equal(t, 0, m.planner.cursor)
}

func TestPlanner_DeleteGoalUnassignsTasks(t *testing.T) {
	m := plannerModel(t, false)
	m = press(t, m, runes("g"), runes("Goal"), enterKey)
	m = press(t, m, runes("a"), runes("Task"), enterKey)

	m = press(t, m, runes("k"), runes("d"))
	assert.Empty(t, m.planner.planner.Goals())
	tasks := m.planner.planner.Week().Day(fixtures.Today).Tasks
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].GoalID)
}

func profileModel(t *testing.T, backend Backend) Model {
	t.Helper()
	m := newTestModel(t, Options{Backend: backend})
	email := "me@example.com"
	m = press(t, m, runes("5"), myInfoMsg{info: &model.MyInfo{Username: "me", Email: &email, Role: "manager", LastLogin: "Today"}})
	require.Equal(t, RouteProfile, m.Route())
	return m
}

func requestReset(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, runes("P"))
	require.Equal(t, ModeConfirm, m.mode)
	m, cmd := send(t, m, runes("y"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	return m
}

func TestProfile_ResetSuccessBannerClears(t *testing.T) {
	backend := &resetBackend{result: api.Result{Success: true}}
	m := profileModel(t, backend)

	m = press(t, m, runes("P"), runes("y"))
	m, cmd := send(t, m, resetResultMsg{result: backend.result})
	require.NotNil(t, m.banner)
	assert.True(t, m.banner.success)
	assert.Equal(t, resetSentText, m.banner.text)
	assert.NotNil(t, cmd, "success schedules the clear")
	assert.Contains(t, m.View(), resetSentText)

	m = press(t, m, clearBannerMsg{seq: m.banner.seq + 1})
	assert.NotNil(t, m.banner, "a stale clear is ignored")

	m = press(t, m, clearBannerMsg{seq: m.banner.seq})
	assert.Nil(t, m.banner)
}

func TestProfile_ResetSendsProfileEmail(t *testing.T) {
	backend := &resetBackend{result: api.Result{Success: true}}
	m := requestReset(t, profileModel(t, backend))

	assert.Equal(t, []string{"me@example.com"}, backend.emails)
	require.NotNil(t, m.banner)
	assert.True(t, m.banner.success)
}

func TestProfile_ResetFailuresPersist(t *testing.T) {
	tests := []struct {
		name    string
		backend *resetBackend
		want    string
	}{
		{"server message", &resetBackend{result: api.Result{Message: "Too many requests"}}, "Too many requests"},
		{"no message", &resetBackend{}, resetFailedText},
		{"network", &resetBackend{err: errors.New("dial tcp: refused")}, resetNetworkText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := requestReset(t, profileModel(t, tt.backend))
			require.NotNil(t, m.banner)
			assert.False(t, m.banner.success)
			assert.Equal(t, tt.want, m.banner.text)

			m = press(t, m, clearBannerMsg{seq: m.banner.seq})
			require.NotNil(t, m.banner, "error banners stay up")

			m = press(t, m, runes("x"))
			assert.Nil(t, m.banner)
		})
	}
}

func TestProfile_ResetCanceled(t *testing.T) {
	backend := &resetBackend{result: api.Result{Success: true}}
	m := profileModel(t, backend)
	m, cmd := send(t, m, runes("P"), escKey)
	assert.Nil(t, cmd)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, backend.emails)
}

func TestProfile_VisibilityToggles(t *testing.T) {
	hidden := prefs.NewHiddenPeople(prefs.NewMemoryStore())
	m := newTestModel(t, Options{Hidden: hidden})
	m = press(t, m, runes("5"), runes("j"), spaceKey)
	assert.True(t, hidden.IsHidden(m.people[1].ID))

	m = press(t, m, m.waitForHidden()())
	view := m.View()
	assert.Contains(t, view, "7 Visible on Timeline")
	assert.Contains(t, view, "1 Hidden from Timeline")

	m = press(t, m, runes("H"))
	assert.Len(t, hidden.Current(), len(m.people))

	m = press(t, m, runes("S"))
	assert.Empty(t, hidden.Current())
}

func TestLogin_WithSession(t *testing.T) {
	mock := session.NewMock()
	s := session.New(mock)
	m := newTestModel(t, Options{Session: s})

	m = press(t, m, runes("i"))
	require.Equal(t, RouteLogin, m.Route())
	require.Equal(t, ModeForm, m.mode)

	m = press(t, m, runes("bad"), tabKey)
	assert.Contains(t, m.View(), "Invalid email address")

	m = press(t, m, enterKey)
	assert.Equal(t, "Please enter a valid email address", m.authForm.err)

	m = press(t, m, tabKey)
	for range "bad" {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = press(t, m, runes("you@teamplan.dev"), tabKey, runes("hunter22"))
	m, cmd := send(t, m, enterKey)
	require.True(t, m.authForm.submitting)
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Equal(t, RouteHome, m.Route())
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Welcome, you@teamplan.dev", m.message)
	assert.True(t, m.signedIn())
}

func TestLogin_EscapeGoesHome(t *testing.T) {
	m := newTestModel(t, Options{Session: session.New(session.NewMock())})
	m = press(t, m, runes("i"), escKey)
	assert.Equal(t, RouteHome, m.Route())
	assert.Equal(t, ModeNormal, m.mode)
}

func TestSignup_OfflineReportsError(t *testing.T) {
	m := newTestModel(t, Options{Session: session.New(session.NewMock())})
	m = press(t, m, runes("u"))
	require.True(t, m.authForm.signup)

	m = press(t, m, runes("new@example.com"), tabKey, runes("short"), tabKey, runes("Acme"))
	m = press(t, m, enterKey)
	assert.Equal(t, "Password must be at least 8 characters", m.authForm.err)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, runes("-enough"), tabKey)
	m, cmd := send(t, m, enterKey)
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Equal(t, RouteSignup, m.Route())
	assert.False(t, m.authForm.submitting)
	assert.Contains(t, m.authForm.err, "not available offline")
}

func TestOffline_MockSessionLifecycle(t *testing.T) {
	m := newTestModel(t, Options{Session: session.New(session.NewMock())})
	m = press(t, m, m.startSession()())

	require.True(t, m.signedIn())
	assert.Contains(t, m.renderHeader(), "you@teamplan.dev")
	assert.Contains(t, m.renderMyInfo(), "Teamplan")

	m, cmd := send(t, m, runes("L"))
	require.NotNil(t, cmd)
	m = press(t, m, cmd())
	assert.False(t, m.signedIn())
	assert.Equal(t, "Logged out", m.message)
	assert.NotContains(t, m.renderHeader(), "you@teamplan.dev")

	m = press(t, m, runes("i"), runes("you@teamplan.dev"), tabKey, runes("hunter22"))
	m, cmd = send(t, m, enterKey)
	require.NotNil(t, cmd)
	m = press(t, m, cmd())
	assert.True(t, m.signedIn())
	assert.Equal(t, "Welcome, you@teamplan.dev", m.message)
}

func TestSignup_SuccessWithoutSession(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, runes("u"))

	m = press(t, m, sessionMsg{action: sessionSignup})
	assert.Equal(t, RouteHome, m.Route())
	assert.Equal(t, "Welcome", m.message)
	assert.False(t, m.signedIn())
}

func TestQuit_UnsubscribesFromHiddenPeople(t *testing.T) {
	hidden := prefs.NewHiddenPeople(prefs.NewMemoryStore())
	m := newTestModel(t, Options{Hidden: hidden})

	// drop the replayed set
	select {
	case <-m.hiddenChan:
	default:
	}

	require.NoError(t, hidden.Toggle("1"))
	assert.Len(t, m.hiddenChan, 1)
	<-m.hiddenChan

	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	require.NoError(t, hidden.Toggle("2"))
	assert.Empty(t, m.hiddenChan)
}

// flakyBackend fails team fetches on demand.
type flakyBackend struct {
	OfflineBackend
	err error
}

func (f *flakyBackend) TeamWeek(ctx context.Context) (*model.TeamWeek, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.OfflineBackend.TeamWeek(ctx)
}

func TestWithSnapshots_FallsBackToLastGoodWeek(t *testing.T) {
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	flaky := &flakyBackend{err: errors.New("connection refused")}
	backend := WithSnapshots(flaky, store)
	ctx := context.Background()

	_, err = backend.TeamWeek(ctx)
	assert.Error(t, err, "nothing cached yet")

	flaky.err = nil
	fresh, err := backend.TeamWeek(ctx)
	require.NoError(t, err)

	flaky.err = errors.New("connection refused")
	cached, err := backend.TeamWeek(ctx)
	require.NoError(t, err)
	assert.Len(t, cached.Members, len(fresh.Members))

	flaky.err = api.ErrNotLoggedIn
	_, err = backend.TeamWeek(ctx)
	assert.ErrorIs(t, err, api.ErrNotLoggedIn)
}
