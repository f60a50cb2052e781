package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewEnvelopeCommand creates the envelope command group.
func NewEnvelopeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envelope",
		Short: "Manage budget envelopes",
	}
	cmd.AddCommand(newEnvelopeCreateCommand(opts))
	return cmd
}

func newEnvelopeCreateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new empty envelope",
		Long: `Create a new envelope with a zero balance. Names are trimmed,
inner whitespace is collapsed, and duplicates are rejected
case-insensitively.

Example:
  envelope envelope create Groceries`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return eng.CreateEnvelope(ctx, args[0])
			})
		},
	}
}
