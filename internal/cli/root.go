// Package cli implements circctl, the operator command line for the circulation engine.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/circulation/store"
	"github.com/tronghieu/ezlib-sub005/internal/config"
	"github.com/tronghieu/ezlib-sub005/internal/database"
)

// Env is an open backend. DB is nil when the repository is not SQL backed.
type Env struct {
	Repo  circulation.Repository
	DB    *sql.DB
	Close func() error
}

// Connector opens the backend a command runs against.
type Connector func(ctx context.Context) (*Env, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string // "json" | "text"
	Connect Connector
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. A nil connector uses the configured Postgres database.
func NewRootCommand(connect Connector) *cobra.Command {
	if connect == nil {
		connect = PostgresConnector
	}

	opts := &RootOptions{Connect: connect}

	cmd := &cobra.Command{
		Use:   "circctl",
		Short: "Operate the ezlib circulation engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewSweepOverdueCommand(opts))
	cmd.AddCommand(NewImportCopiesCommand(opts))
	cmd.AddCommand(NewAvailabilityCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// PostgresConnector opens the database named by the environment configuration.
func PostgresConnector(ctx context.Context) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	return &Env{Repo: store.New(db), DB: db, Close: db.Close}, nil
}

// withEnv runs fn against a freshly opened backend.
func withEnv(ctx context.Context, opts *RootOptions, fn func(env *Env) error) error {
	env, err := opts.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if env.Close != nil {
		defer env.Close()
	}

	return fn(env)
}
