package cli

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/existflow/teamplan/internal/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and the server build",
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	info, err := ws.backend.MyInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	me := newTable("Field", "Value")
	me.AppendRows([]table.Row{
		{"Username", info.Username},
		{"Email", deref(info.Email)},
		{"Role", info.Role},
		{"Joined", deref(info.JoinedAt)},
		{"Last login", orDash(info.LastLogin)},
	})
	me.SetTitle("Profile")
	me.Render()

	sys, err := ws.backend.SystemInfo(ctx)
	if err != nil {
		fmt.Println(text.FgHiRed.Sprintf("System info unavailable: %v", err))
		return nil
	}
	fmt.Println()
	systemTable(sys).Render()
	return nil
}

func systemTable(sys *model.SystemInfo) table.Writer {
	t := newTable("Field", "Value")
	t.SetTitle("System")
	t.AppendRow(table.Row{"Server time", orDash(sys.ServerTime)})
	t.AppendRow(table.Row{"Environment", orDash(sys.Environment)})
	if b := sys.BuildInfo; b != nil {
		t.AppendRows([]table.Row{
			{"App", orDash(b.AppName)},
			{"Version", orDash(b.FullVersion)},
			{"Branch", orDash(b.Branch)},
			{"Deployed", orDash(b.DeploymentTime)},
			{"Pipeline", deref(b.PipelineURL)},
		})
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
