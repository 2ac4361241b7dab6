package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moviedb/app"
	"moviedb/config"
	"moviedb/logging"
	"moviedb/metadata"
	"moviedb/notifier"
	"moviedb/scheduler"
	"moviedb/storage"
	"moviedb/website"
)

var (
	flagConfig   string
	flagBackend  string
	flagDataFile string
	flagLogLevel string
)

// env is everything a subcommand needs, built once per invocation by the
// root command's PersistentPreRunE.
type env struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     storage.StorageInterface
	closer    io.Closer
	generator *website.Generator
	notifier  scheduler.WebsiteNotifier
	app       *app.MovieApp
}

var current *env

var rootCmd = &cobra.Command{
	Use:           "moviedb",
	Short:         "Manage a personal movie catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		current = e
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		err := current.closer.Close()
		current = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./moviedb.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: json, csv or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data-file", "", "catalog file (default depends on backend)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd, addCmd, deleteCmd, updateCmd, statsCmd, randomCmd,
		searchCmd, sortCmd, filterCmd, websiteCmd, menuCmd, watchCmd)
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    cmd.ErrOrStderr(),
	})

	store, closer, err := storage.New(cfg.Storage,
		storage.WithLogger(logger.With().Str("component", "storage").Logger()))
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("storage ready")

	e := &env{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		closer:    closer,
		generator: website.NewGenerator(cfg.Site.TemplatePath),
	}

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithWebsite(e.generator, cfg.Site.OutputPath),
	}

	if cfg.OMDb.APIKey != "" {
		client, err := metadata.NewOMDbClient(cfg.OMDb, logger.With().Str("component", "omdb").Logger())
		if err != nil {
			closer.Close()
			return nil, err
		}
		opts = append(opts, app.WithFetcher(client))
	}

	if cfg.Email.Enabled() {
		n, err := notifier.NewEmailNotifier(cfg.Email, logger.With().Str("component", "email").Logger())
		if err != nil {
			closer.Close()
			return nil, err
		}
		e.notifier = n
		opts = append(opts, app.WithNotifier(n))
	}

	e.app = app.New(store, cmd.OutOrStdout(), opts...)
	return e, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRunE is skipped when a command fails.
		if current != nil {
			current.closer.Close()
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
