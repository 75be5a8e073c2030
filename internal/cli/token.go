package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tronghieu/ezlib-sub005/internal/config"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

// NewTokenCommand issues bearer tokens signed with the configured JWT secret.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		subject string
		library string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for one library membership",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryID, err := parseLibraryFlag(library)
			if err != nil {
				return err
			}

			r := identity.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid --role %q", role)
			}

			if subject == "" {
				subject = uuid.NewString()
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			authority, err := identity.NewJWTAuthority(cfg.JWT.Secret, cfg.JWT.Issuer)
			if err != nil {
				return err
			}

			token, err := authority.Issue(subject, []identity.Membership{{LibraryID: libraryID, Role: r}}, ttl)
			if err != nil {
				return err
			}

			return write(cmd.OutOrStdout(), opts.Format, map[string]string{"subject": subject, "token": token}, func(w io.Writer) {
				writeLine(w, "%s", token)
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "staff id the token acts as (generated when omitted)")
	cmd.Flags().StringVar(&library, "library", "", "library id (required)")
	cmd.Flags().StringVar(&role, "role", string(identity.RoleLibrarian), "owner|manager|librarian|member")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}
