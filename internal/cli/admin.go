package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quadsql/internal/adapter"
)

// MigrateResult reports the store that was migrated.
type MigrateResult struct {
	Dialect string `json:"dialect"`
	Driver  string `json:"driver"`
	Count   int64  `json:"count"`
}

func (r MigrateResult) String() string {
	return fmt.Sprintf("schema ready (%s via %s, %d statements)", r.Dialect, r.Driver, r.Count)
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the quads table if absent",
		Long: `Open the store, which creates the quads table and indexes when they do
not exist yet. Running it against a migrated store changes nothing.

Example:
  quadsql migrate --db postgres://localhost/quads?sslmode=disable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.store.Count(commandContext(cmd))
			if err != nil {
				return WrapExitError(ExitCommandError, "count failed", err)
			}
			a := s.store.Adapter()
			return rootOpts.formatter(cmd).Success(MigrateResult{
				Dialect: a.Dialect(),
				Driver:  a.DriverName(),
				Count:   n,
			})
		},
	}
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered adapter dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(adapter.Dialects())
		},
	}
}
