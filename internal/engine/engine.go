// Package engine is the single entry point for snapshot mutation.
//
// Every command follows the same sequence: read the latest local snapshot,
// apply a pure transform on a draft, run the recompute pipeline, persist
// the result locally, then best-effort push to the remote repository.
// Domain errors abort before the persistence write, so a failed command
// never leaves a partially mutated snapshot behind.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/remote"
)

// Storage is the persistence port: one whole-snapshot document per
// household plus the sync metadata. Implemented by store.Store
// (production) and in-memory fakes (tests).
type Storage interface {
	LoadState(ctx context.Context, householdID string) (*ledger.AppState, error)
	SaveState(ctx context.Context, state *ledger.AppState) error
	LastSyncedRev(ctx context.Context, householdID string) (int64, error)
	SetLastSyncedRev(ctx context.Context, householdID string, rev int64) error
}

// Default bounds for remote calls. The remote store has no timeout
// contract of its own, so the engine imposes one.
const (
	DefaultSyncTimeout = 10 * time.Second
	DefaultSyncRetries = 2
)

// Engine composes the pure ledger transforms with the persistence and
// sync ports.
//
// Thread-safety model: commands serialize on an internal mutex, so no two
// recomputes race against the same snapshot. This is the single-writer-
// per-device model; cross-device races are resolved only at the remote
// repository's compare-and-swap.
//
// The engine holds no snapshot in memory between commands; each command
// reads the latest persisted state.
type Engine struct {
	mu sync.Mutex

	storage     Storage
	remote      remote.Repository // nil for a device that never syncs
	householdID string
	userID      string

	policy      ledger.SpendPolicy
	now         func() time.Time
	ids         IDGenerator
	syncTimeout time.Duration
	syncRetries int
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithSpendPolicy selects the envelope spend policy.
// Default: ledger.SpendLenient (negative balances surface overspend).
func WithSpendPolicy(policy ledger.SpendPolicy) Option {
	return func(e *Engine) { e.policy = policy }
}

// WithNow overrides the wall clock. Used by tests and replay tooling to
// stamp deterministic timestamps.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the id generator.
// Default: UUIDGenerator (UUIDv7, time-sortable).
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithSyncTimeout bounds each individual remote call.
func WithSyncTimeout(d time.Duration) Option {
	return func(e *Engine) { e.syncTimeout = d }
}

// WithSyncRetries sets how many extra push attempts follow a transport
// failure. Conflicts are never retried blindly; they go through pull-and-
// overwrite recovery instead.
func WithSyncRetries(n int) Option {
	return func(e *Engine) { e.syncRetries = n }
}

// New creates an Engine for one household on one device.
//
// remoteRepo may be nil: the device then works fully offline and Sync
// reports nothing to do. userID identifies this device's user for
// assignment audit metadata and remote updatedBy stamps.
func New(storage Storage, remoteRepo remote.Repository, householdID, userID string, opts ...Option) *Engine {
	e := &Engine{
		storage:     storage,
		remote:      remoteRepo,
		householdID: householdID,
		userID:      userID,
		policy:      ledger.SpendLenient,
		now:         time.Now,
		ids:         UUIDGenerator{},
		syncTimeout: DefaultSyncTimeout,
		syncRetries: DefaultSyncRetries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// recompute runs the deterministic pipeline over a draft snapshot:
//
//  1. Apply transactions to account balances (exactly once per id).
//  2. Rebuild the inbox from transactions and the assignment table.
//  3. Apply transactions to the budget: income grows the available pool;
//     assigned expenses spend from their envelope; unassigned expenses
//     stay unapplied and are retried on a future recompute.
//
// The draft is mutated in place; callers pass a Clone. Fund-policy errors
// propagate before anything is persisted.
func (e *Engine) recompute(draft *ledger.AppState) (*ledger.AppState, error) {
	applied := ledger.ApplyToAccounts(draft.Accounts, draft.Transactions, draft.AppliedAccountTransactionIDs)
	draft.Accounts = applied.Accounts
	draft.AppliedAccountTransactionIDs = applied.AppliedIDs

	draft.Inbox = ledger.BuildInbox(draft.Transactions, draft.Inbox.AssignmentsByTransactionID)

	budget, budgetApplied, err := e.applyBudget(draft)
	if err != nil {
		return nil, err
	}
	draft.Budget = budget
	draft.AppliedBudgetTransactionIDs = budgetApplied

	draft.UpdatedAt = e.now().UTC()
	return draft, nil
}

// applyBudget is step 3 of the pipeline.
//
// Envelope resolution prefers the assignment table over the transaction's
// own envelope link; the link is the fallback for transactions created
// pre-assigned. Zero-amount transactions are marked applied with no
// effect - they can never move money.
func (e *Engine) applyBudget(draft *ledger.AppState) (ledger.Budget, ledger.IDSet, error) {
	budget := draft.Budget
	applied := draft.AppliedBudgetTransactionIDs.Clone()

	for _, tx := range draft.Transactions {
		if applied.Has(tx.ID) {
			continue
		}

		if !tx.Amount.IsNegative() {
			budget = ledger.ReceiveIncome(budget, tx.Amount)
			applied.Add(tx.ID)
			continue
		}

		envelopeID := tx.EnvelopeID
		if a, ok := draft.Inbox.AssignmentsByTransactionID[tx.ID]; ok {
			envelopeID = a.EnvelopeID
		}
		if envelopeID == "" {
			// Not yet assigned: leave unapplied for a future recompute.
			continue
		}

		next, err := ledger.SpendFromEnvelope(budget, envelopeID, tx.Amount.Abs(), e.policy)
		if err != nil {
			return draft.Budget, draft.AppliedBudgetTransactionIDs, err
		}
		budget = next
		applied.Add(tx.ID)
	}

	return budget, applied, nil
}

// persist writes the recomputed snapshot locally, then best-effort pushes
// it to the remote repository. A transport failure degrades to a warning:
// the command already succeeded locally and sync is advisory. A conflict
// triggers pull-and-overwrite recovery, in which case the returned
// snapshot is the remote-authoritative one.
func (e *Engine) persist(ctx context.Context, state *ledger.AppState) (*ledger.AppState, error) {
	if err := e.storage.SaveState(ctx, state); err != nil {
		return nil, err
	}

	if e.remote == nil {
		return state, nil
	}

	synced, err := e.trySync(ctx, state)
	if err != nil {
		slog.Warn("sync deferred",
			"household", e.householdID,
			"error", err,
		)
		return state, nil
	}
	return synced, nil
}

// mutate runs one command under the single-writer lock: load, transform
// on a clone, recompute, persist.
func (e *Engine) mutate(ctx context.Context, name string, transform func(*ledger.AppState) error) (*ledger.AppState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	draft := state.Clone()
	if err := transform(draft); err != nil {
		slog.Debug("command rejected", "command", name, "error", err)
		return nil, err
	}

	next, err := e.recompute(draft)
	if err != nil {
		slog.Debug("recompute rejected", "command", name, "error", err)
		return nil, err
	}

	result, err := e.persist(ctx, next)
	if err != nil {
		return nil, err
	}

	slog.Info("command applied",
		"command", name,
		"household", e.householdID,
		"transactions", len(result.Transactions),
		"envelopes", len(result.Budget.Envelopes),
	)
	return result, nil
}
