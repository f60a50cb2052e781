package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create and persist the first-run household snapshot",
		Long: `Create the first-run snapshot: both household members, one manual
checking account each, an empty budget and an empty inbox.

Running seed on a device that already has a snapshot returns the
existing snapshot unchanged; it never overwrites data.

Example:
  envelope seed --db ./household.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return eng.Seed(ctx)
			})
		},
	}
}
