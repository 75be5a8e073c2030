package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

type LibraryUpsertOptions struct {
	*RootOptions
	ID             string
	Name           string
	Status         string
	LoanDays       int
	MaxRenewals    int
	MaxActiveLoans int
	LateFee        string
	MaxLateFee     string
	LostFee        string
	ProcessingFee  string
}

func NewLibraryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage library tenants and their circulation settings",
	}

	cmd.AddCommand(newLibraryUpsertCommand(opts))
	cmd.AddCommand(newLibraryListCommand(opts))

	return cmd
}

func newLibraryUpsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryUpsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create a library or update its name, status and settings",
		Long: `Create a library or update an existing one.

Settings flags that are not given keep their current value, or the default for a new library.
Fees are decimal amounts in the library currency.

Examples:
  circctl library upsert --name "Main Branch"
  circctl library upsert --id 7d7c... --late-fee 0.50 --max-renewals 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryUpsert(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ID, "id", "", "library id (generated when omitted)")
	f.StringVar(&opts.Name, "name", "", "display name")
	f.StringVar(&opts.Status, "status", "", "active|inactive|pending")
	f.IntVar(&opts.LoanDays, "loan-days", 0, "default loan period in days")
	f.IntVar(&opts.MaxRenewals, "max-renewals", 0, "renewals allowed per loan")
	f.IntVar(&opts.MaxActiveLoans, "max-loans", 0, "open loans allowed per member (0 = unlimited)")
	f.StringVar(&opts.LateFee, "late-fee", "", "late fee per day")
	f.StringVar(&opts.MaxLateFee, "max-late-fee", "", "late fee cap (0 = uncapped)")
	f.StringVar(&opts.LostFee, "lost-fee", "", "replacement fee for a lost item")
	f.StringVar(&opts.ProcessingFee, "processing-fee", "", "processing fee for a lost item")

	return cmd
}

func runLibraryUpsert(cmd *cobra.Command, opts *LibraryUpsertOptions) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	return withEnv(ctx, opts.RootOptions, func(env *Env) error {
		lib := &circulation.Library{
			ID:        uuid.New(),
			Status:    circulation.LibraryStatusActive,
			Settings:  circulation.DefaultSettings(),
			CreatedAt: time.Now().UTC(),
		}

		if opts.ID != "" {
			id, err := uuid.Parse(opts.ID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			existing, err := env.Repo.GetLibrary(ctx, id)
			switch {
			case err == nil:
				lib = existing
			case errors.Is(err, circulation.ErrNotFound):
				lib.ID = id
			default:
				return err
			}
		}

		if flags.Changed("name") {
			lib.Name = opts.Name
		}

		if lib.Name == "" {
			return errors.New("--name is required for a new library")
		}

		if flags.Changed("status") {
			status := circulation.LibraryStatus(opts.Status)
			if !status.Valid() {
				return fmt.Errorf("invalid --status %q", opts.Status)
			}

			lib.Status = status
		}

		if err := applySettings(flags.Changed, opts, &lib.Settings); err != nil {
			return err
		}

		if err := env.Repo.UpsertLibrary(ctx, lib); err != nil {
			return err
		}

		return write(cmd.OutOrStdout(), opts.Format, toLibraryView(lib), func(w io.Writer) {
			writeLine(w, "library %s (%s) %s", lib.ID, lib.Name, lib.Status)
		})
	})
}

func applySettings(changed func(string) bool, opts *LibraryUpsertOptions, s *circulation.Settings) error {
	if changed("loan-days") {
		if opts.LoanDays < 1 {
			return errors.New("--loan-days must be at least 1")
		}

		s.DefaultLoanPeriod = time.Duration(opts.LoanDays) * 24 * time.Hour
	}

	if changed("max-renewals") {
		if opts.MaxRenewals < 0 {
			return errors.New("--max-renewals must not be negative")
		}

		s.MaxRenewals = opts.MaxRenewals
	}

	if changed("max-loans") {
		if opts.MaxActiveLoans < 0 {
			return errors.New("--max-loans must not be negative")
		}

		s.MaxActiveLoans = opts.MaxActiveLoans
	}

	amounts := []struct {
		flag  string
		value string
		dst   *int64
	}{
		{"late-fee", opts.LateFee, &s.LateFeePerDay},
		{"max-late-fee", opts.MaxLateFee, &s.MaxLateFee},
		{"lost-fee", opts.LostFee, &s.LostItemFee},
		{"processing-fee", opts.ProcessingFee, &s.LostProcessingFee},
	}

	for _, a := range amounts {
		if !changed(a.flag) {
			continue
		}

		minor, err := circulation.ParseAmount(a.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", a.flag, err)
		}

		*a.dst = minor
	}

	return nil
}

type librarySettingsView struct {
	LoanDays       int    `json:"loan_days"`
	MaxRenewals    int    `json:"max_renewals"`
	MaxActiveLoans int    `json:"max_active_loans"`
	LateFeePerDay  string `json:"late_fee_per_day"`
	MaxLateFee     string `json:"max_late_fee"`
	LostItemFee    string `json:"lost_item_fee"`
	ProcessingFee  string `json:"processing_fee"`
}

type libraryView struct {
	ID       uuid.UUID           `json:"id"`
	Name     string              `json:"name"`
	Status   string              `json:"status"`
	Settings librarySettingsView `json:"settings"`
}

func toLibraryView(lib *circulation.Library) libraryView {
	s := lib.Settings

	return libraryView{
		ID:     lib.ID,
		Name:   lib.Name,
		Status: string(lib.Status),
		Settings: librarySettingsView{
			LoanDays:       int(s.DefaultLoanPeriod / (24 * time.Hour)),
			MaxRenewals:    s.MaxRenewals,
			MaxActiveLoans: s.MaxActiveLoans,
			LateFeePerDay:  circulation.FormatAmount(s.LateFeePerDay),
			MaxLateFee:     circulation.FormatAmount(s.MaxLateFee),
			LostItemFee:    circulation.FormatAmount(s.LostItemFee),
			ProcessingFee:  circulation.FormatAmount(s.LostProcessingFee),
		},
	}
}

func newLibraryListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), opts, func(env *Env) error {
				libs, err := env.Repo.ListLibraries(cmd.Context())
				if err != nil {
					return err
				}

				views := make([]libraryView, len(libs))
				for i, lib := range libs {
					views[i] = toLibraryView(lib)
				}

				return write(cmd.OutOrStdout(), opts.Format, views, func(w io.Writer) {
					for _, v := range views {
						writeLine(w, "%s\t%s\t%s\tloan=%dd late=%s/day", v.ID, v.Status, v.Name, v.Settings.LoanDays, v.Settings.LateFeePerDay)
					}
				})
			})
		},
	}
}
