package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/remote"
)

// Sync pushes the current local snapshot to the remote repository without
// mutating it. On conflict the remote snapshot replaces the local one and
// is returned. With no remote configured, Sync returns the local snapshot
// unchanged.
func (e *Engine) Sync(ctx context.Context) (*ledger.AppState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	if e.remote == nil {
		return state, nil
	}
	return e.trySync(ctx, state)
}

// ResetRemote deletes the shared household document and forgets the
// local sync position. The local snapshot is untouched; the next push
// recreates the document from rev 0.
func (e *Engine) ResetRemote(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remote == nil {
		return nil
	}

	clearCtx, cancel := context.WithTimeout(ctx, e.syncTimeout)
	defer cancel()
	if err := e.remote.Clear(clearCtx, e.householdID); err != nil {
		return fmt.Errorf("clear remote document: %w", err)
	}
	if err := e.storage.SetLastSyncedRev(ctx, e.householdID, 0); err != nil {
		return err
	}

	slog.Info("remote document cleared", "household", e.householdID)
	return nil
}

// trySync pushes state with the last-synced revision as the compare-and-
// swap guard. Transport failures are retried up to syncRetries extra
// times; a conflict switches to pull-and-overwrite recovery immediately.
// Callers must hold the lock.
func (e *Engine) trySync(ctx context.Context, state *ledger.AppState) (*ledger.AppState, error) {
	expectedRev, err := e.storage.LastSyncedRev(ctx, e.householdID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= e.syncRetries; attempt++ {
		rev, err := e.push(ctx, state, expectedRev)
		if err == nil {
			if err := e.storage.SetLastSyncedRev(ctx, e.householdID, rev); err != nil {
				return nil, err
			}
			slog.Debug("pushed snapshot", "household", e.householdID, "rev", rev)
			return state, nil
		}

		if remote.IsConflict(err) {
			return e.recoverFromConflict(ctx)
		}

		lastErr = err
		slog.Debug("push attempt failed",
			"household", e.householdID,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, fmt.Errorf("push failed after %d attempts: %w", e.syncRetries+1, lastErr)
}

func (e *Engine) push(ctx context.Context, state *ledger.AppState, expectedRev int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.syncTimeout)
	defer cancel()

	return e.remote.Push(ctx, remote.PushArgs{
		HouseholdID: e.householdID,
		ExpectedRev: expectedRev,
		NextState:   state,
		UpdatedBy:   e.userID,
	})
}

// recoverFromConflict pulls the remote snapshot and overwrites the local
// one with it. Last writer wins at whole-snapshot granularity: the local
// changes that lost the race are discarded, not merged.
func (e *Engine) recoverFromConflict(ctx context.Context) (*ledger.AppState, error) {
	pullCtx, cancel := context.WithTimeout(ctx, e.syncTimeout)
	defer cancel()

	snap, err := e.remote.Pull(pullCtx, e.householdID)
	if err != nil {
		return nil, fmt.Errorf("conflict recovery pull: %w", err)
	}
	if snap == nil {
		// Conflicted against a document that has since been cleared.
		// Nothing to adopt; the next push starts over from rev 0.
		if err := e.storage.SetLastSyncedRev(ctx, e.householdID, 0); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("conflict recovery: remote document vanished")
	}

	if err := e.storage.SaveState(ctx, snap.State); err != nil {
		return nil, err
	}
	if err := e.storage.SetLastSyncedRev(ctx, e.householdID, snap.Rev); err != nil {
		return nil, err
	}

	slog.Info("conflict resolved by remote overwrite",
		"household", e.householdID,
		"rev", snap.Rev,
		"updatedBy", snap.UpdatedBy,
	)
	return snap.State, nil
}
