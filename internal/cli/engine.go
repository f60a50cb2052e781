package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/remote"
	"github.com/envelope-sh/envelope/internal/store"
)

// openEngine wires the engine from the resolved configuration. The
// remote repository is only attached when a remote database is
// configured; without one the device works fully offline.
func openEngine(opts *RootOptions) (*engine.Engine, func(), error) {
	st, err := store.Open(opts.Config.DB)
	if err != nil {
		return nil, nil, err
	}

	var repo remote.Repository
	cleanup := func() { _ = st.Close() }
	if opts.Config.RemoteDB != "" {
		r, err := remote.OpenSQLite(opts.Config.RemoteDB)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		repo = r
		cleanup = func() {
			_ = r.Close()
			_ = st.Close()
		}
	}

	eng := engine.New(st, repo, opts.Config.Household, opts.Config.User)
	return eng, cleanup, nil
}

// runCommand executes one engine command and renders the resulting
// snapshot. Domain errors map to ExitFailure with their code; everything
// else is a command error.
func runCommand(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, eng *engine.Engine) (*ledger.AppState, error)) error {
	eng, cleanup, err := openEngine(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer cleanup()

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	state, err := fn(cmd.Context(), eng)
	if err != nil {
		var de *ledger.DomainError
		if errors.As(err, &de) {
			_ = f.Error(string(de.Code), de.Message)
			return NewExitError(ExitFailure, de.Error())
		}
		return WrapExitError(ExitCommandError, "command failed", err)
	}
	return f.State(state)
}
