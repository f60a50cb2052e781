package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewAllocateCommand creates the allocate command.
func NewAllocateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <envelope-id> <cents>",
		Short: "Move money from the available pool into an envelope",
		Long: `Move the given amount of cents from the available-to-assign pool
into an envelope. Fails when the pool does not cover the amount.

Example:
  envelope allocate env-groceries 150000`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "cents must be an integer", err)
			}
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return eng.AllocateToEnvelope(ctx, args[0], cents)
			})
		},
	}
}
