package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/prefs"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List people and choose who shows on the timeline",
	Long: `List tracked people and manage which of them are hidden from the
daily and weekly views. Hidden people are stored locally.

Examples:
  teamplan people
  teamplan people hide 3
  teamplan people show sarah
  teamplan people show-all`,
	RunE: runPeopleList,
}

var peopleHideCmd = &cobra.Command{
	Use:   "hide <person>...",
	Short: "Hide people from the timeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(args, true)
	},
}

var peopleShowCmd = &cobra.Command{
	Use:   "show <person>...",
	Short: "Show hidden people again",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(args, false)
	},
}

var peopleHideAllCmd = &cobra.Command{
	Use:   "hide-all",
	Short: "Hide everyone",
	RunE:  runHideAll,
}

var peopleShowAllCmd = &cobra.Command{
	Use:   "show-all",
	Short: "Show everyone",
	RunE:  runShowAll,
}

func init() {
	peopleCmd.AddCommand(peopleHideCmd)
	peopleCmd.AddCommand(peopleShowCmd)
	peopleCmd.AddCommand(peopleHideAllCmd)
	peopleCmd.AddCommand(peopleShowAllCmd)
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	people, err := ws.backend.People(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	if len(people) == 0 {
		fmt.Println("No people found.")
		return nil
	}

	hidden := ws.hidden.Load()
	t := newTable("ID", "Name", "Email", "Status", "Timeline")
	visible := 0
	for _, p := range people {
		state := text.FgHiGreen.Sprint("visible")
		if hidden.Has(p.ID) {
			state = text.FgHiRed.Sprint("hidden")
		} else {
			visible++
		}
		t.AppendRow(table.Row{p.ID, p.DisplayName(), p.Email, string(p.Status), state})
	}
	t.SetCaption("%d Visible on Timeline · %d Hidden from Timeline", visible, len(people)-visible)
	t.Render()
	return nil
}

// resolvePeople maps ids or names to person ids. Unknown ids are passed
// through so a person can be hidden before they show up in the list.
func resolvePeople(people []model.Person, queries []string) []string {
	ids := make([]string, 0, len(queries))
	for _, q := range queries {
		id := q
		for _, p := range people {
			if p.ID == q || p.Name != "" && strings.EqualFold(p.Name, q) {
				id = p.ID
				break
			}
		}
		ids = append(ids, id)
	}
	return ids
}

func setHidden(queries []string, hide bool) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	people, err := ws.backend.People(context.Background())
	if err != nil {
		// names cannot be resolved, but ids still work
		people = nil
	}

	if err := applyVisibility(ws.hidden, resolvePeople(people, queries), hide); err != nil {
		return fmt.Errorf("failed to save visibility: %w", err)
	}

	verb := "Shown"
	if hide {
		verb = "Hidden"
	}
	fmt.Printf("%s: %d %s\n", verb, len(queries), plural(len(queries), "person", "people"))
	return nil
}

// applyVisibility hides or shows each id once. Ids already in the wanted
// state are left alone.
func applyVisibility(h *prefs.HiddenPeople, ids []string, hide bool) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if h.IsHidden(id) == hide {
			continue
		}
		if err := h.Toggle(id); err != nil {
			return err
		}
	}
	return nil
}

func runHideAll(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	people, err := ws.backend.People(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	if err := ws.hidden.HideAll(ids); err != nil {
		return fmt.Errorf("failed to save visibility: %w", err)
	}
	fmt.Printf("Hidden everyone (%d)\n", len(ids))
	return nil
}

func runShowAll(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.hidden.ShowAll(); err != nil {
		return fmt.Errorf("failed to save visibility: %w", err)
	}
	fmt.Println("Everyone is visible again")
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
