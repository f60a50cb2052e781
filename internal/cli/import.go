package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/importer"
	"github.com/envelope-sh/envelope/internal/ledger"
)

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <batch.yaml>",
		Short: "Import a provider transaction batch",
		Long: `Import accounts and transactions from a provider batch file.

Provider accounts merge into the household's account list without
duplicating on reconnect; transactions are sign-normalized, converted
to cents, and merged with id and content-fingerprint dedup. Importing
the same batch twice is a no-op.

Example:
  envelope import ./batch.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := importer.OpenFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load batch file", err)
			}
			return runCommand(opts, cmd, func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error) {
				return importBatch(ctx, eng, provider, opts.Config.User)
			})
		},
	}
}

// importBatch merges provider accounts first so the account id map
// covers every transaction in the batch.
func importBatch(ctx context.Context, eng *engine.Engine, provider importer.ProviderClient, userID string) (*ledger.AppState, error) {
	accounts, err := provider.FetchAccounts(ctx)
	if err != nil {
		return nil, err
	}
	state, err := eng.State(ctx)
	if err != nil {
		return nil, err
	}

	mapped := importer.MapAccounts(accounts, userID, state.Accounts)
	if _, err := eng.ImportAccounts(ctx, mapped.Accounts); err != nil {
		return nil, err
	}

	providerTxs, _, err := provider.SyncTransactions(ctx, "")
	if err != nil {
		return nil, err
	}
	txs, err := importer.MapTransactions(providerTxs, mapped.AccountIDMap)
	if err != nil {
		return nil, err
	}
	return eng.ImportTransactions(ctx, txs)
}
