package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/plan"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show what the team planned today",
	Long: `Show each visible team member's goals, tasks and checkout for today.

Examples:
  teamplan daily
  teamplan daily --all
  teamplan daily --offline`,
	RunE: runDaily,
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly [person]",
	Short: "Show one person's week",
	Long: `Show a person's goals and their plan for each day of the week.
The person is matched by id or name; the first visible member is the default.

Examples:
  teamplan weekly
  teamplan weekly sarah`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeekly,
}

var (
	dailyAll  bool
	weeklyDay string
)

func init() {
	dailyCmd.Flags().BoolVarP(&dailyAll, "all", "a", false, "Include hidden people")
	weeklyCmd.Flags().StringVar(&weeklyDay, "today", "", "Weekday treated as today (Monday..Saturday)")
}

func runDaily(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	week, err := ws.backend.TeamWeek(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}

	hidden := ws.hidden.Load()
	t := newTable("Person", "Goals", "Tasks", "Checkout", "Logged in")
	shown := 0
	for _, m := range week.Members {
		if !dailyAll && hidden.Has(m.ID) {
			continue
		}
		shown++
		t.AppendRow(table.Row{
			m.Name,
			goalColumn(m),
			taskColumn(m),
			checkoutColumn(m),
			loginColumn(m),
		})
	}

	if shown == 0 {
		fmt.Println("Everyone is hidden. Use 'teamplan people show-all' or --all.")
		return nil
	}
	t.SetCaption("%d of %d people · %s", shown, len(week.Members), ws.today)
	t.Render()
	return nil
}

func goalColumn(m model.TeamMember) string {
	rows, _ := plan.Breakdown(m.Goals, m.Tasks)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		line := r.Goal.Label().String()
		if r.Completed {
			line = text.FgHiYellow.Sprintf("🏆 %s", line)
		}
		lines = append(lines, line)
	}
	return joinLines(lines)
}

// taskColumn lists finished tasks and counts the rest, as the dashboard card does.
func taskColumn(m model.TeamMember) string {
	rows, unassigned := plan.Breakdown(m.Goals, m.Tasks)
	rows = append(rows, unassigned)

	var lines []string
	var remaining int
	for _, r := range rows {
		for _, t := range r.Done {
			lines = append(lines, taskLine(t))
		}
		remaining += r.Remaining
	}
	if remaining > 0 {
		lines = append(lines, text.Italic.Sprintf("○ %d more todo", remaining))
	}
	return joinLines(lines)
}

func checkoutColumn(m model.TeamMember) string {
	if !m.HasCheckedOut || m.CheckoutMessage == nil {
		return text.FgHiBlack.Sprint("-")
	}
	msg := m.CheckoutMessage
	s := fmt.Sprintf("%s %s", msg.Timestamp, truncate(msg.Message.String(), 50))
	if m.NetWorkTime != "" {
		s = text.FgGreen.Sprint(m.NetWorkTime) + " " + s
	}
	return s
}

func loginColumn(m model.TeamMember) string {
	if m.LoginTime == "" {
		return text.FgHiBlack.Sprint("-")
	}
	return fmt.Sprintf("%s (%s)", m.LoginTime, m.LoginTimeAgo)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	today := ws.today
	if weeklyDay != "" {
		if today, err = model.ParseWeekday(weeklyDay); err != nil {
			return err
		}
	}

	week, err := ws.backend.TeamWeek(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}

	var member model.TeamMember
	if len(args) == 1 {
		var ok bool
		if member, ok = findPerson(week.Members, args[0]); !ok {
			return fmt.Errorf("no team member matches %q", args[0])
		}
	} else {
		hidden := ws.hidden.Load()
		for _, m := range week.Members {
			if !hidden.Has(m.ID) {
				member = m
				break
			}
		}
		if member.ID == "" {
			return fmt.Errorf("no visible team members")
		}
	}

	days := week.Daily[member.ID]
	start, err := time.Parse("2006-01-02", week.WeekStart)
	if err != nil {
		start = mondayOf(time.Now())
	}

	fmt.Printf("\n%s\n\n", text.Bold.Sprint(member.Name))

	goals := newTable("Goal", "Status", "Pending")
	for _, g := range member.Goals {
		s := plan.SummarizeGoal(g, days, plan.SummaryLimit)
		status := text.FgHiRed.Sprint("open")
		if s.Completed {
			status = text.FgHiGreen.Sprint("🏆 done")
		}
		pending := make([]string, 0, len(s.Pending)+1)
		for _, t := range s.Pending {
			pending = append(pending, taskLine(t))
		}
		if s.More > 0 {
			pending = append(pending, text.Italic.Sprintf("+%d more", s.More))
		}
		goals.AppendRow(table.Row{g.Label().String(), status, joinLines(pending)})
	}
	if len(member.Goals) > 0 {
		goals.Render()
		fmt.Println()
	}

	t := newTable("Day", "Tasks", "Checkout")
	for _, d := range model.Weekdays {
		day := days.Day(d)
		label := model.DayHeader(start, d)
		if d == today {
			label = text.Bold.Sprint(label)
		}
		t.AppendRow(table.Row{label, dayColumn(day, d, today), dayCheckout(day)})
	}
	t.Render()
	return nil
}

func dayColumn(day model.DayPlan, d, today model.Weekday) string {
	if len(day.Tasks) == 0 {
		return text.FgHiBlack.Sprint("No tasks planned")
	}
	var lines []string
	if plan.MissedCheckout(day, d, today) {
		lines = append(lines, text.FgHiRed.Sprint("⚠ Missed Checkout"))
	}
	for _, t := range plan.CompletedFirst(day.Tasks) {
		lines = append(lines, taskLine(t))
	}
	return joinLines(lines)
}

func dayCheckout(day model.DayPlan) string {
	if !day.HasCheckedOut || day.CheckoutMessage == nil {
		return text.FgHiBlack.Sprint("-")
	}
	s := day.CheckoutMessage.Timestamp + " " + truncate(day.CheckoutMessage.Message.String(), 40)
	if day.NetWorkTime != "" {
		s = text.FgGreen.Sprint(day.NetWorkTime) + " " + s
	}
	return s
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 4 {
		return s
	}
	return string(r[:max-3]) + "..."
}
