package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tronghieu/ezlib-sub005/internal/database"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), opts, func(env *Env) error {
				if env.DB == nil {
					return errors.New("migrate requires the postgres store")
				}

				if err := database.Migrate(cmd.Context(), env.DB); err != nil {
					return err
				}

				writeLine(cmd.OutOrStdout(), "schema is up to date")

				return nil
			})
		},
	}
}
