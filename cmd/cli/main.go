package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/planimed/planning-engine/internal/config"
	"github.com/planimed/planning-engine/pkg/core/model"
	"github.com/planimed/planning-engine/pkg/core/services"
	"github.com/planimed/planning-engine/pkg/db"
	"github.com/planimed/planning-engine/pkg/postgres"
	"github.com/planimed/planning-engine/pkg/utils/logging"
	"github.com/planimed/planning-engine/pkg/yamlstore"
)

// App holds the application dependencies
type App struct {
	cfg     *config.Config
	store   db.SnapshotStore
	cleanup func()
	logger  *zap.Logger
	ctx     context.Context
}

var (
	configPath   string
	snapshotPath string
	databaseURL  string
	verbose      bool
	app          *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planning",
		Short: "Planning engine CLI - generate and inspect medical duty schedules",
		Long:  `A CLI tool for generating weekly schedules, detecting conflicts, suggesting replacements and rebuilding equity history.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "validate-config" {
				return nil
			}
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.cleanup != nil {
					app.cleanup()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default: planning_config.yaml in cwd or home)")
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "", "Path to a YAML snapshot file (overrides the database)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (overrides the config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level on the console")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(conflictsCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(validateConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the snapshot store
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.cfg, err = loadConfig()
	if err != nil {
		return err
	}

	app.logger, err = logging.InitLogger(app.cfg.LogPath, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	connString := databaseURL
	if connString == "" {
		connString = app.cfg.DatabaseURL
	}

	switch {
	case snapshotPath != "":
		app.logger.Debug("Using YAML snapshot store", zap.String("path", snapshotPath))
		app.store = yamlstore.New(snapshotPath)
	case connString != "":
		app.logger.Debug("Connecting to database")
		pg, err := postgres.NewDB(app.ctx, connString)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.store = pg
		app.cleanup = pg.Close
	default:
		return fmt.Errorf("no snapshot source: pass --snapshot or configure databaseURL")
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		// The config file is optional when the store comes from flags.
		if snapshotPath != "" || databaseURL != "" {
			return &config.Config{}, nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// Command definitions

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schedule for one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")
			seed, _ := cmd.Flags().GetInt64("seed")
			autoFill, _ := cmd.Flags().GetBool("auto-fill")
			asJSON, _ := cmd.Flags().GetBool("json")

			result, err := services.GenerateWeek(app.ctx, app.store, app.cfg, app.logger, week, autoFill, seed)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}

			fmt.Printf("\nWeek of %s (%d slots)\n\n", result.WeekStart, len(result.Slots))
			for _, slot := range result.Slots {
				printSlot(slot)
			}
			return nil
		},
	}

	cmd.Flags().String("week", "", "Any date inside the target week (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	cmd.Flags().Int64("seed", 0, "Seed for tie-break decisions")
	cmd.Flags().Bool("auto-fill", true, "Run the equity assigner on open activity slots")
	cmd.Flags().Bool("json", false, "Print the week as JSON")

	return cmd
}

func conflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Generate a week and report scheduling conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")
			seed, _ := cmd.Flags().GetInt64("seed")
			asJSON, _ := cmd.Flags().GetBool("json")

			report, err := services.DetectConflicts(app.ctx, app.store, app.cfg, app.logger, week, seed)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(report)
			}

			if len(report.Conflicts) == 0 {
				fmt.Printf("\nNo conflicts in week of %s\n", report.WeekStart)
				return nil
			}
			fmt.Printf("\n%d conflict(s) in week of %s:\n\n", len(report.Conflicts), report.WeekStart)
			for _, c := range report.Conflicts {
				fmt.Printf("  [%s] %s: %s\n", c.Severity, c.Kind, c.Description)
			}
			return nil
		},
	}

	cmd.Flags().String("week", "", "Any date inside the target week (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	cmd.Flags().Int64("seed", 0, "Seed for tie-break decisions")
	cmd.Flags().Bool("json", false, "Print the report as JSON")

	return cmd
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank replacement candidates for a conflicted slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")
			slotID, _ := cmd.Flags().GetString("slot")
			workerID, _ := cmd.Flags().GetString("worker")
			seed, _ := cmd.Flags().GetInt64("seed")
			asJSON, _ := cmd.Flags().GetBool("json")

			suggestions, err := services.SuggestReplacements(app.ctx, app.store, app.cfg, app.logger, week, slotID, workerID, seed)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(suggestions)
			}

			if len(suggestions) == 0 {
				fmt.Println("\nNo eligible replacement found.")
				return nil
			}
			fmt.Printf("\nReplacement candidates for slot %s:\n\n", slotID)
			for i, s := range suggestions {
				fmt.Printf("  %d. %s (score %d)\n", i+1, s.WorkerID, s.Score)
				for _, reason := range s.Reasons {
					fmt.Printf("       - %s\n", reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("week", "", "Any date inside the target week (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	cmd.Flags().String("slot", "", "ID of the slot needing cover")
	cmd.MarkFlagRequired("slot")
	cmd.Flags().String("worker", "", "ID of the unavailable worker")
	cmd.MarkFlagRequired("worker")
	cmd.Flags().Int64("seed", 0, "Seed for tie-break decisions")
	cmd.Flags().Bool("json", false, "Print the suggestions as JSON")

	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Rebuild equity history from saved assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			upTo, _ := cmd.Flags().GetString("up-to")
			asJSON, _ := cmd.Flags().GetBool("json")

			result, err := services.RebuildHistory(app.ctx, app.store, app.cfg, app.logger, upTo)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}

			fmt.Printf("\nEquity history over %d week(s)", result.Weeks)
			if result.Truncated {
				fmt.Print(" (truncated)")
			}
			fmt.Println(":")
			for workerID, groups := range result.Equity {
				fmt.Printf("\n  %s:\n", workerID)
				for group, score := range groups {
					fmt.Printf("    %-30s %.1f\n", group, score)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("up-to", "", "Replay history up to (excluding) the week of this date")
	cmd.MarkFlagRequired("up-to")
	cmd.Flags().Bool("json", false, "Print the history as JSON")

	return cmd
}

func validateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Check the config file for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				_, err = config.LoadFromPath(configPath)
			} else {
				_, err = config.Load()
			}
			if err != nil {
				return err
			}
			fmt.Println("Config is valid.")
			return nil
		},
	}
}

func printSlot(slot model.ScheduleSlot) {
	label := string(slot.Type)
	if slot.SubType != "" {
		label = slot.SubType
	}
	assignee := slot.AssigneeID
	if assignee == "" {
		assignee = "(open)"
	}
	switch {
	case slot.Cancelled:
		fmt.Printf("  %s %-9s  %-20s CANCELLED\n", slot.Date, slot.Period, label)
	case slot.Unconfirmed:
		fmt.Printf("  %s %-9s  %-20s %s (unconfirmed)\n", slot.Date, slot.Period, label, assignee)
	default:
		fmt.Printf("  %s %-9s  %-20s %s\n", slot.Date, slot.Period, label, assignee)
	}
}
