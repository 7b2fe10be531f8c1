package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/db"
	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/prefs"
	"github.com/existflow/teamplan/internal/tui"
)

// workspace bundles what the read-only commands need.
type workspace struct {
	db      *db.DB
	backend tui.Backend
	hidden  *prefs.HiddenPeople
	today   model.Weekday
}

func (w *workspace) Close() {
	if w.db != nil {
		_ = w.db.Close()
	}
}

func newClient() (*api.Client, error) {
	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	return client, nil
}

// openWorkspace opens the local database and picks the data source. Online
// fetches fall back to the last stored snapshot.
func openWorkspace() (*workspace, error) {
	database, err := db.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	w := &workspace{db: database, hidden: prefs.NewHiddenPeople(database)}

	if cfg.Offline {
		w.backend = tui.OfflineBackend{}
		w.today = fixtures.Today
		return w, nil
	}

	client, err := newClient()
	if err != nil {
		w.Close()
		return nil, err
	}
	w.backend = tui.WithSnapshots(client, database)
	w.today = currentWeekday(time.Now())
	return w, nil
}

// currentWeekday maps Sunday onto Saturday, the last planning day.
func currentWeekday(t time.Time) model.Weekday {
	if d, ok := model.WeekdayOf(t); ok {
		return d
	}
	return model.Saturday
}

func newTable(header ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	row := make(table.Row, 0, len(header))
	for _, h := range header {
		row = append(row, text.FgGreen.Sprintf("%s", h))
	}
	t.AppendHeader(row)
	return t
}

func taskLine(t model.Task) string {
	if t.IsCompleted {
		return text.FgHiGreen.Sprintf("✔ %s", t.Label().String())
	}
	return "○ " + t.Label().String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return text.FgHiBlack.Sprint("-")
	}
	return strings.Join(lines, "\n")
}

// findPerson matches an id or a case-insensitive name.
func findPerson(members []model.TeamMember, query string) (model.TeamMember, bool) {
	for _, m := range members {
		if m.ID == query || strings.EqualFold(m.Name, query) {
			return m, true
		}
	}
	return model.TeamMember{}, false
}
