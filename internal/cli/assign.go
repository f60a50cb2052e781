package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewAssignCommand creates the assign command.
func NewAssignCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <tx-id> <envelope-id>",
		Short: "Assign an inbox transaction to an envelope",
		Long: `Record that a transaction should debit an envelope. The recompute
then spends the amount from the envelope and removes the transaction
from the inbox. Reassigning is last-write-wins.

Example:
  envelope assign tx-0192f1a0 env-groceries`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return eng.AssignTransaction(ctx, args[0], args[1])
			})
		},
	}
}
