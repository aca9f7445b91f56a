// Command migrate applies, rolls back or reports the embedded schema
// migrations against DATABASE_DSN.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/forge-journal/forge-identity/internal/adapter/postgres"
	"github.com/forge-journal/forge-identity/internal/app"
	"github.com/forge-journal/forge-identity/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the identity profile database schema",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider, log *slog.Logger) error {
					results, err := p.Up(ctx)
					for _, r := range results {
						log.Info("migration applied", slog.Int64("version", r.Source.Version), slog.String("file", r.Source.Path))
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider, log *slog.Logger) error {
					r, err := p.Down(ctx)
					if r != nil {
						log.Info("migration rolled back", slog.Int64("version", r.Source.Version), slog.String("file", r.Source.Path))
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider, _ *slog.Logger) error {
					statuses, err := p.Status(ctx)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					for _, s := range statuses {
						applied := "pending"
						if s.State == goose.StateApplied {
							applied = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(out, "%5d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
					}
					return nil
				})
			},
		},
	)

	return root
}

func withProvider(ctx context.Context, fn func(ctx context.Context, p *goose.Provider, log *slog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	provider, db, err := postgres.NewMigrator(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping migration connection: %w", err)
	}
	return fn(ctx, provider, logger)
}
