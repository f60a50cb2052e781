package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewTxCommand creates the tx command group.
func NewTxCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	cmd.AddCommand(newTxAddCommand(opts))
	return cmd
}

// TxAddOptions holds flags for the tx add command.
type TxAddOptions struct {
	Account     string
	Cents       int64
	Description string
}

func newTxAddCommand(opts *RootOptions) *cobra.Command {
	addOpts := &TxAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a manual transaction",
		Long: `Record a hand-entered transaction. Positive cents are income and
immediately grow the available-to-assign pool; negative cents are an
expense and wait in the inbox until assigned to an envelope.

Example:
  envelope tx add --account acc-1 --cents -60000 --description "weekly shop"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return eng.AddManualTransaction(ctx, addOpts.Account, addOpts.Cents, addOpts.Description)
			})
		},
	}

	cmd.Flags().StringVar(&addOpts.Account, "account", "", "account id (required)")
	cmd.Flags().Int64Var(&addOpts.Cents, "cents", 0, "signed amount in cents (required)")
	cmd.Flags().StringVar(&addOpts.Description, "description", "", "transaction description")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("cents")

	return cmd
}
