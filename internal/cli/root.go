package cli

import (
	"fmt"

	"github.com/mihazs/clockify-auto-fill/internal/calendar"
	"github.com/mihazs/clockify-auto-fill/internal/clockify"
	"github.com/mihazs/clockify-auto-fill/internal/config"
	"github.com/mihazs/clockify-auto-fill/internal/jira"
	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "clockify-auto-fill",
	Short: "Automated daily time entries for Clockify",
	Long: `clockify-auto-fill creates your daily Clockify time entry, backfills
gaps over the previous weeks, and pulls task descriptions from Jira.

Run 'clockify-auto-fill setup' once, then schedule 'clockify-auto-fill run'
with your process manager of choice.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
		cfg = loaded

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("clockify-auto-fill started", logger.F("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("clockify-auto-fill exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// newClockifyClient builds the API client from the loaded config.
func newClockifyClient() (*clockify.Client, error) {
	if cfg.ClockifyAPIKey == "" || cfg.WorkspaceID == "" {
		return nil, fmt.Errorf("clockify credentials missing, run 'clockify-auto-fill setup' first")
	}
	return clockify.New(clockify.Settings{
		APIKey:           cfg.ClockifyAPIKey,
		WorkspaceID:      cfg.WorkspaceID,
		ProjectID:        cfg.ProjectID,
		DefaultStartTime: cfg.DefaultStartTime,
		DefaultEndTime:   cfg.DefaultEndTime,
	}), nil
}

// newJiraClient builds the issue-tracker client; it may be unconfigured.
func newJiraClient() *jira.Client {
	return jira.New(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraToken)
}

// newClassifier builds the business-day classifier for the configured region.
func newClassifier() *calendar.Classifier {
	return calendar.NewClassifier(calendar.NewRegionSource(cfg.HolidayRegion))
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(importCmd)
}
