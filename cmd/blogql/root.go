package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andrewwphillips/blogql"
	"github.com/andrewwphillips/blogql/internal/config"
)

// app holds what the commands share, set up before any command runs
type app struct {
	configPath string
	dataPath   string

	cfg    *config.Config
	logger *slog.Logger
	store  *blogql.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "blogql",
		Short: "A read-only GraphQL server for users, posts and comments",
		Long: `blogql serves GraphQL queries on an in-memory blog of users, the posts they
write and the comments made on those posts.

The entities are loaded from a YAML data file (with top-level "users", "posts"
and "comments" lists) or, if no file is given, the built-in demo data is used.
Settings are read from an optional YAML config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML config file (defaults are used if not given)")
	cmd.PersistentFlags().StringVarP(&a.dataPath, "data", "d", "", "Path to YAML data file (overrides data.file in the config)")

	cmd.AddCommand(a.newServeCmd(), a.newQueryCmd(), a.newSchemaCmd())
	return cmd
}

// setup loads the config, creates the logger and loads the data
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dataPath != "" {
		cfg.Data.File = a.dataPath
	}
	a.cfg = cfg

	if a.logger, err = setupLogger(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if cfg.Data.File == "" {
		a.store = blogql.SeedStore()
		a.logger.Debug("using demo data")
		return nil
	}
	if a.store, err = blogql.LoadStore(cfg.Data.File); err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	a.logger.Debug("loaded data", "file", cfg.Data.File)
	return nil
}

// options converts the config into options for blogql.New
func (a *app) options(m *blogql.Metrics) []blogql.Option {
	return []blogql.Option{
		blogql.Logger(a.logger),
		blogql.WithMetrics(m),
		blogql.NoConcurrency(a.cfg.Engine.NoConcurrency),
		blogql.QueryTimeout(a.cfg.Server.QueryTimeout),
		blogql.InitialTimeout(a.cfg.WebSocket.InitialTimeout),
		blogql.PingFrequency(a.cfg.WebSocket.PingFrequency),
		blogql.PongTimeout(a.cfg.WebSocket.PongTimeout),
	}
}
