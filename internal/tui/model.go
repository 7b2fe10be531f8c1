package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
	"github.com/existflow/teamplan/internal/prefs"
	"github.com/existflow/teamplan/internal/session"
)

// Route is a page address.
type Route string

const (
	RouteHome    Route = "/"
	RouteDaily   Route = "/daily"
	RouteWeekly  Route = "/weekly"
	RouteMe      Route = "/me"
	RouteProfile Route = "/profile"
	RoutePeople  Route = "/people"
	RouteAccount Route = "/account"
	RouteLogin   Route = "/login"
	RouteSignup  Route = "/signup"
)

// navTabs is the tab bar order. /people and /account are shown but have no
// page behind them.
var navTabs = []struct {
	route Route
	label string
}{
	{RouteHome, "Home"},
	{RouteDaily, "Daily"},
	{RouteWeekly, "Weekly"},
	{RouteMe, "My Week"},
	{RouteProfile, "Profile"},
	{RoutePeople, "People"},
	{RouteAccount, "Account"},
}

// Mode represents the current input mode
type Mode int

const (
	ModeNormal  Mode = iota
	ModeEdit         // inline edit or add in the planner
	ModeConfirm      // waiting for y/n
	ModeForm         // login or signup fields have focus
	ModeHelp
)

// Options wires the dashboard to its collaborators.
type Options struct {
	Backend Backend
	Session *session.Session
	Hidden  *prefs.HiddenPeople

	// Planner seeds the /me page; Me is the member shown on it.
	Planner *plan.Planner
	Me      model.TeamMember

	Layout        CardLayout
	ConfirmDelete bool

	// Today is the weekday treated as current; the zero value uses the clock.
	Today model.Weekday

	// Refresh polls the team week in the background when set.
	Refresh *api.AutoRefresh
}

// bannerState is the password reset result banner on the profile page.
type bannerState struct {
	text    string
	success bool
	seq     int
}

// Model is the main TUI model
type Model struct {
	backend Backend
	session *session.Session
	hidden  *prefs.HiddenPeople
	layout  CardLayout
	today   model.Weekday

	// fetched slots; nil until the first successful fetch
	week       *model.TeamWeek
	people     []model.Person
	myInfo     *model.MyInfo
	systemInfo *model.SystemInfo
	hiddenSet  prefs.IDSet

	// background channels
	unsubscribe func()
	hiddenChan  chan prefs.IDSet
	refreshChan chan *model.TeamWeek
	refresh     *api.AutoRefresh

	// UI state
	width   int
	height  int
	route   Route
	mode    Mode
	cursor  int // selected card or row on the current page
	message string

	planner  plannerState
	authForm authForm
	banner   *bannerState
	confirm  *pendingConfirm
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	logger.Info("Initializing TUI model")

	today := opts.Today
	if !today.Valid() {
		if d, ok := model.WeekdayOf(time.Now()); ok {
			today = d
		} else {
			today = model.Saturday
		}
	}

	backend := opts.Backend
	if backend == nil {
		backend = OfflineBackend{}
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	p := opts.Planner
	if p == nil {
		p = plan.NewPlanner(nil, nil)
	}

	m := Model{
		backend:     backend,
		session:     opts.Session,
		hidden:      opts.Hidden,
		layout:      opts.Layout,
		today:       today,
		hiddenSet:   prefs.NewIDSet(),
		hiddenChan:  make(chan prefs.IDSet, 1),
		refreshChan: make(chan *model.TeamWeek, 1),
		refresh:     opts.Refresh,
		route:       RouteHome,
		mode:        ModeNormal,
		planner:     newPlannerState(p, opts.Me, today, opts.ConfirmDelete, ti),
		authForm:    newAuthForm(),
	}

	if m.hidden != nil {
		m.hiddenSet = m.hidden.Current()
		// replayed immediately, then on every change
		hiddenChan := m.hiddenChan
		m.unsubscribe = m.hidden.Subscribe(func(set prefs.IDSet) {
			offerLatest(hiddenChan, set)
		})
	}

	if m.refresh != nil {
		refreshChan := m.refreshChan
		m.refresh.SetOnUpdate(func(w *model.TeamWeek) {
			offerLatest(refreshChan, w)
		})
	}

	return m
}

// offerLatest sends v without blocking, replacing any value not yet read.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Route returns the current page.
func (m Model) Route() Route { return m.route }

// visibleMembers drops people hidden by the viewer.
func (m Model) visibleMembers() []model.TeamMember {
	if m.week == nil {
		return nil
	}
	out := make([]model.TeamMember, 0, len(m.week.Members))
	for _, mem := range m.week.Members {
		if !m.hiddenSet.Has(mem.ID) {
			out = append(out, mem)
		}
	}
	return out
}

func (m Model) weekStart() time.Time {
	if m.week != nil {
		if t, err := time.Parse("2006-01-02", m.week.WeekStart); err == nil {
			return t
		}
	}
	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7
	y, mo, d := now.AddDate(0, 0, -offset).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m Model) signedIn() bool {
	return m.session != nil && m.session.State().User != nil
}
