package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/existflow/teamplan/internal/config"
	"github.com/existflow/teamplan/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change the settings stored in ~/.teamplan/config.yaml.

Keys: server_url, confirm_delete, offline, card_layout, delete_policy, log_level, log_file, log_console

Examples:
  teamplan config
  teamplan config set card_layout checkout-first
  teamplan config set confirm_delete false`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	t := newTable("Key", "Value")
	t.AppendRows([]table.Row{
		{"server_url", cfg.ServerURL},
		{"confirm_delete", cfg.ConfirmDelete},
		{"offline", cfg.Offline},
		{"card_layout", cfg.CardLayout},
		{"delete_policy", cfg.DeletePolicy},
		{"log_level", cfg.LogLevel},
		{"log_file", cfg.LogFile},
		{"log_console", cfg.LogConsole},
	})
	if path, err := config.Path(); err == nil {
		t.SetCaption(path)
	}
	t.Render()
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	// reload so run-only overrides such as --offline are not persisted
	current, err := config.Load()
	if err != nil {
		return err
	}
	if err := setConfigValue(current, args[0], args[1]); err != nil {
		return err
	}
	if err := current.Validate(); err != nil {
		return err
	}
	if err := current.Save(); err != nil {
		return err
	}
	logger.Info("Config updated", logger.F("key", args[0]))
	fmt.Printf("✅ %s = %s\n", args[0], args[1])
	return nil
}

func setConfigValue(c *config.Config, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		return b, nil
	}

	var err error
	switch strings.ToLower(key) {
	case "server_url":
		c.ServerURL = value
	case "confirm_delete":
		c.ConfirmDelete, err = parseBool()
	case "offline":
		c.Offline, err = parseBool()
	case "card_layout":
		c.CardLayout = value
	case "delete_policy":
		c.DeletePolicy = strings.ToLower(value)
	case "log_level":
		c.LogLevel = strings.ToUpper(value)
	case "log_file":
		c.LogFile = value
	case "log_console":
		c.LogConsole, err = parseBool()
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return err
}
