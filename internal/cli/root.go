package cli

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/teamplan/internal/api"
	"github.com/existflow/teamplan/internal/config"
	"github.com/existflow/teamplan/internal/db"
	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/plan"
	"github.com/existflow/teamplan/internal/prefs"
	"github.com/existflow/teamplan/internal/session"
	"github.com/existflow/teamplan/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	serverURL  string
	offline    bool

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

// IsInteractive reports whether stdin is a terminal. main replaces it.
var IsInteractive = func() bool { return true }

// refreshInterval is how often the dashboard polls the team week.
const refreshInterval = time.Minute

var rootCmd = &cobra.Command{
	Use:   "teamplan",
	Short: "Teamplan - Team work planning in the terminal",
	Long: `Teamplan shows what your team planned for the day and the week, who has
checked out, and lets you plan your own week.

Run 'teamplan' without arguments to launch the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = serverURL
			configChanged = true
		}
		// --offline applies to this run only
		if cmd.Flags().Changed("offline") {
			cfg.Offline = offline
		}

		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole
		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Teamplan started", logger.F("command", cmd.Name()), logger.F("offline", cfg.Offline))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		if !IsInteractive() {
			return errors.New("the dashboard needs a terminal; use a subcommand such as 'teamplan daily'")
		}
		return runDashboard()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Teamplan exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API server URL (saved to config)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use the bundled demo team instead of the API")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configCmd)
}

func runDashboard() error {
	database, err := db.OpenDefault()
	if err != nil {
		logger.Error("Failed to open database", logger.F("error", err))
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
		logger.Info("Database closed")
	}()

	hidden := prefs.NewHiddenPeople(database)

	me, week, err := fixtures.Me()
	if err != nil {
		return err
	}
	policy, err := plan.ParseDeletePolicy(cfg.DeletePolicy)
	if err != nil {
		return err
	}
	planner := plan.NewPlanner(me.Goals, week, plan.WithDeletePolicy(policy))

	opts := tui.Options{
		Hidden:        hidden,
		Planner:       planner,
		Me:            me,
		Layout:        tui.ParseCardLayout(cfg.CardLayout),
		ConfirmDelete: cfg.ConfirmDelete,
	}

	if cfg.Offline {
		opts.Backend = tui.OfflineBackend{}
		opts.Session = session.New(session.NewMock())
		opts.Today = fixtures.Today
	} else {
		client, err := api.NewClient(cfg.ServerURL)
		if err != nil {
			return fmt.Errorf("failed to create api client: %w", err)
		}
		opts.Backend = tui.WithSnapshots(client, database)
		opts.Session = session.New(client)
		opts.Refresh = api.NewAutoRefresh(client.TeamWeek, refreshInterval)
	}

	logger.Info("Launching TUI", logger.F("server", cfg.ServerURL))
	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	logger.Info("TUI exited normally")
	return nil
}
