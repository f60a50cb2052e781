package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	Reset bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	syncOpts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the snapshot with the shared household document",
		Long: `Push the local snapshot to the shared household document. On a
conflict the remote snapshot wins and replaces the local one wholesale.

With --reset, the shared document is deleted instead; the local
snapshot stays and the next push recreates the document.

Example:
  envelope sync --remote-db ./shared.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				if syncOpts.Reset {
					if err := eng.ResetRemote(ctx); err != nil {
						return nil, err
					}
					return eng.State(ctx)
				}
				return eng.Sync(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&syncOpts.Reset, "reset", false, "delete the shared household document")

	return cmd
}
