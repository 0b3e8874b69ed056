package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planner/internal/config"
	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
	"github.com/existflow/planner/internal/planner"
	"github.com/existflow/planner/internal/tui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFile    string
	logConsole bool
	dbDriver   string
	dbDSN      string
	userName   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Planner - lists, tasks and tags for many users",
	Long: `Planner keeps per-user task lists with tags, reminders, comments and
events, and serves them over a JSON API.

Run 'planner' without arguments to browse your tasks in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
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

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		// Connection flags apply to this run only
		if cmd.Flags().Changed("db-driver") {
			cfg.DBDriver = dbDriver
		}
		if cmd.Flags().Changed("db") {
			cfg.DBDSN = dbDSN
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Planner started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer closeService(svc)

		user, err := actingUser(cmd.Context(), svc)
		if err != nil {
			return err
		}

		logger.Info("Launching TUI", logger.F("user", user.ID))
		m := tui.NewModel(svc, user)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Planner exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.planner/config.yaml)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Database and identity
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Database path (sqlite) or URL (postgres)")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "Act as this user (default $PLANNER_USER or demo)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse tasks in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.RunE(cmd, args)
	},
}

func openService() (*planner.Service, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("Failed to open database", logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return planner.New(database), nil
}

func closeService(svc *planner.Service) {
	_ = svc.DB().Close()
	logger.Info("Database closed")
}

// actingUser resolves --user, then $PLANNER_USER, then the demo account
func actingUser(ctx context.Context, svc *planner.Service) (model.User, error) {
	name := userName
	if name == "" {
		name = os.Getenv("PLANNER_USER")
	}
	if name == "" {
		name = planner.DemoUsername
	}

	user, err := svc.UserByName(ctx, name)
	if errors.Is(err, planner.ErrNotFound) {
		if name == planner.DemoUsername {
			return model.User{}, fmt.Errorf("no user selected; run 'planner demo' or 'planner user add <name>' and pass --user")
		}
		return model.User{}, fmt.Errorf("user not found: %s", name)
	}
	return user, err
}
