package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"postgraph/config"
	"postgraph/internal/app"
	"postgraph/pkg/auth"
	"postgraph/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "postgraph",
		Short:        "GraphQL API for posts and likes",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (env vars override it)")

	serve := newServeCommand(&configFile)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCommand(&configFile), newTokenCommand(&configFile))
	return root
}

// setup loads the config and returns a context carrying the configured logger.
func setup(ctx context.Context, configFile string) (context.Context, config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	log, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, config.Config{}, err
	}
	slog.SetDefault(log)
	return logger.WithLogger(ctx, log), cfg, nil
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctx, cfg, err := setup(ctx, *configFile)
			if err != nil {
				return err
			}
			a, err := app.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

func newMigrateCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(down bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			return app.Migrate(ctx, cfg, down)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", RunE: run(false)},
		&cobra.Command{Use: "down", Short: "Revert the latest migration", RunE: run(true)},
	)
	return cmd
}

func newTokenCommand(configFile *string) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := setup(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			tok, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "user id to put in the token subject")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
