package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/importer"
)

func parseLibraryFlag(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --library %q: %w", s, err)
	}

	return id, nil
}

func NewSweepOverdueCommand(opts *RootOptions) *cobra.Command {
	var library string

	cmd := &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Label past-due loans overdue and notify their borrowers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryID, err := parseLibraryFlag(library)
			if err != nil {
				return err
			}

			return withEnv(cmd.Context(), opts, func(env *Env) error {
				ledger := circulation.NewLedger(env.Repo)
				svc := circulation.NewService(env.Repo, ledger)

				marked, err := svc.SweepOverdue(cmd.Context(), libraryID)
				if err != nil {
					return err
				}

				return write(cmd.OutOrStdout(), opts.Format, map[string]int{"marked": marked}, func(w io.Writer) {
					writeLine(w, "%d loan(s) marked overdue", marked)
				})
			})
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "library id (required)")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}

func NewImportCopiesCommand(opts *RootOptions) *cobra.Command {
	var library, file string

	cmd := &cobra.Command{
		Use:   "import-copies",
		Short: "Register copies from an inventory CSV",
		Long: `Register copies from an inventory CSV.

Two layouts are recognised by their header row:
  edition_id;copies[;location][;condition]    one batch per row
  edition_id;barcode[;location][;condition]   one copy per row

Either comma or semicolon separators work, in any common encoding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryID, err := parseLibraryFlag(library)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			return withEnv(cmd.Context(), opts, func(env *Env) error {
				res, err := importer.NewService(circulation.NewLedger(env.Repo)).Import(cmd.Context(), libraryID, f)
				if err != nil {
					if res != nil && res.Batches > 0 {
						return fmt.Errorf("%d batch(es) registered before failure: %w", res.Batches, err)
					}

					return err
				}

				summary := map[string]any{"profile": res.Profile, "batches": res.Batches, "imported": len(res.Registered)}

				return write(cmd.OutOrStdout(), opts.Format, summary, func(w io.Writer) {
					writeLine(w, "imported %d copies in %d batch(es) (%s layout)", len(res.Registered), res.Batches, res.Profile)
				})
			})
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "library id (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file (required)")
	_ = cmd.MarkFlagRequired("library")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func NewAvailabilityCommand(opts *RootOptions) *cobra.Command {
	var library, edition string

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show total and available copies of an edition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			libraryID, err := parseLibraryFlag(library)
			if err != nil {
				return err
			}

			editionID, err := uuid.Parse(edition)
			if err != nil {
				return fmt.Errorf("invalid --edition %q: %w", edition, err)
			}

			return withEnv(cmd.Context(), opts, func(env *Env) error {
				a, err := circulation.NewLedger(env.Repo).GetAvailability(cmd.Context(), libraryID, editionID)
				if err != nil {
					return err
				}

				view := map[string]any{"edition_id": a.EditionID, "total": a.Total, "available": a.Available}

				return write(cmd.OutOrStdout(), opts.Format, view, func(w io.Writer) {
					writeLine(w, "%d of %d available", a.Available, a.Total)
				})
			})
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "library id (required)")
	cmd.Flags().StringVar(&edition, "edition", "", "edition id (required)")
	_ = cmd.MarkFlagRequired("library")
	_ = cmd.MarkFlagRequired("edition")

	return cmd
}
