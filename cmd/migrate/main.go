package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"moviedb/config"
	"moviedb/logging"
	"moviedb/storage"
)

var (
	flagConfig   string
	flagDataFile string
	flagLogLevel string
)

// db is opened by the root command before every subcommand.
var db *storage.SQLiteStorage

var rootCmd = &cobra.Command{
	Use:           "moviedb-migrate",
	Short:         "Manage the schema of the SQLite movie catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, cmd.Flags())
		if err != nil {
			return err
		}

		path := flagDataFile
		if path == "" && cfg.Storage.Backend == storage.BackendSQLite {
			path = cfg.Storage.Path
		}
		if path == "" {
			path = "data/movies.db"
		}

		logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: cmd.ErrOrStderr()})
		db = storage.NewSQLiteStorage(path, storage.WithLogger(logger))
		if err := db.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db == nil {
			return nil
		}
		return db.Close()
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunMigrations(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RollbackMigration(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mm := db.GetMigrationManager()
		if err := mm.Initialize(); err != nil {
			return err
		}
		return mm.Status(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := db.GetDatabaseVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database version: %d\n", version)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.ResetDatabase(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database reset completed successfully")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./moviedb.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data-file", "", "SQLite database file (default: data/movies.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd, versionCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
