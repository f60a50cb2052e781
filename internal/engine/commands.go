package engine

import (
	"context"
	"log/slog"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/money"
)

// State returns the current snapshot, seeding a first-run snapshot when
// the device has none.
func (e *Engine) State(ctx context.Context) (*ledger.AppState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadOrSeed(ctx)
}

// loadOrSeed reads the persisted snapshot, creating and persisting the
// first-run snapshot when none exists. Callers must hold the lock.
func (e *Engine) loadOrSeed(ctx context.Context) (*ledger.AppState, error) {
	state, err := e.storage.LoadState(ctx, e.householdID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}
	return e.seed(ctx)
}

// Seed ensures the device has a snapshot. When none exists it creates and
// persists the first-run snapshot: the two household members, one manual
// checking account each, an empty budget, an empty inbox. A device that
// already has a snapshot gets it back unchanged; Seed never overwrites.
func (e *Engine) Seed(ctx context.Context) (*ledger.AppState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadOrSeed(ctx)
}

func (e *Engine) seed(ctx context.Context) (*ledger.AppState, error) {
	state := &ledger.AppState{
		Version:     ledger.StateVersion,
		HouseholdID: e.householdID,
		Users: []ledger.User{
			{ID: "user-1", DisplayName: "Primary"},
			{ID: "user-2", DisplayName: "Partner"},
		},
		Budget: ledger.Budget{
			ID:                e.householdID,
			AvailableToAssign: money.Zero(),
			Envelopes:         []ledger.Envelope{},
		},
		Accounts: []ledger.Account{
			{ID: "acc-1", Name: "Primary Checking", Balance: money.Zero()},
			{ID: "acc-2", Name: "Partner Checking", Balance: money.Zero()},
		},
		Transactions: []ledger.Transaction{},
		Inbox: ledger.TransactionInbox{
			UnassignedTransactionIDs:   []string{},
			AssignmentsByTransactionID: map[string]ledger.TransactionAssignment{},
		},
		AppliedAccountTransactionIDs: ledger.NewIDSet(),
		AppliedBudgetTransactionIDs:  ledger.NewIDSet(),
		UpdatedAt:                    e.now().UTC(),
	}

	next, err := e.recompute(state)
	if err != nil {
		return nil, err
	}

	slog.Info("seeding first-run snapshot", "household", e.householdID)
	return e.persist(ctx, next)
}

// CreateEnvelope adds a new empty envelope to the budget.
// Fails with ValidationError on a blank or duplicate (case-insensitive)
// name.
func (e *Engine) CreateEnvelope(ctx context.Context, name string) (*ledger.AppState, error) {
	return e.mutate(ctx, "create_envelope", func(draft *ledger.AppState) error {
		env := ledger.Envelope{
			ID:      e.ids.NewID("env"),
			Name:    name,
			Balance: money.Zero(),
		}
		budget, err := ledger.AddEnvelope(draft.Budget, env)
		if err != nil {
			return err
		}
		draft.Budget = budget
		return nil
	})
}

// AssignTransaction records that a transaction should debit an envelope.
// The assignment itself moves no money; the recompute applies it. Fails
// with NotFoundError when either id is absent from the snapshot. Last
// write wins on reassignment.
func (e *Engine) AssignTransaction(ctx context.Context, transactionID, envelopeID string) (*ledger.AppState, error) {
	return e.mutate(ctx, "assign_transaction", func(draft *ledger.AppState) error {
		assignment := ledger.TransactionAssignment{
			TransactionID:    transactionID,
			EnvelopeID:       envelopeID,
			AssignedByUserID: e.userID,
			AssignedAt:       e.now().UTC(),
		}
		inbox, err := ledger.AssignToEnvelope(draft.Inbox, draft.Transactions, draft.Budget, assignment)
		if err != nil {
			return err
		}
		draft.Inbox = inbox
		return nil
	})
}

// AllocateToEnvelope moves cents from the available-to-assign pool into
// an envelope. Fails with InsufficientAvailableFunds when the pool is too
// small; nothing is persisted in that case.
func (e *Engine) AllocateToEnvelope(ctx context.Context, envelopeID string, cents int64) (*ledger.AppState, error) {
	return e.mutate(ctx, "allocate", func(draft *ledger.AppState) error {
		budget, err := ledger.AllocateFunds(draft.Budget, envelopeID, money.FromCents(cents))
		if err != nil {
			return err
		}
		draft.Budget = budget
		return nil
	})
}

// AddManualTransaction records a hand-entered transaction. Positive cents
// are income, negative are expense. The transaction enters the inbox
// unassigned; the recompute applies it to the account balance immediately
// and to the budget once assigned (or immediately, for income).
func (e *Engine) AddManualTransaction(ctx context.Context, accountID string, cents int64, description string) (*ledger.AppState, error) {
	return e.mutate(ctx, "add_transaction", func(draft *ledger.AppState) error {
		tx := ledger.Transaction{
			ID:          e.ids.NewID("tx"),
			AccountID:   accountID,
			Amount:      money.FromCents(cents),
			Description: description,
			PostedAt:    e.now().UTC(),
		}
		draft.Transactions = append([]ledger.Transaction{tx}, draft.Transactions...)
		return nil
	})
}

// ImportAccounts replaces the account list with a merged provider list
// (see importer.MapAccounts). Existing balances are preserved by the
// merge itself; this command only adopts its output.
func (e *Engine) ImportAccounts(ctx context.Context, merged []ledger.Account) (*ledger.AppState, error) {
	return e.mutate(ctx, "import_accounts", func(draft *ledger.AppState) error {
		draft.Accounts = append([]ledger.Account(nil), merged...)
		return nil
	})
}

// ImportTransactions merges a mapped provider batch into the snapshot.
// The merger drops exact id duplicates and, for import-sourced
// transactions, content-fingerprint duplicates from provider reconnects.
// Merging the same batch again is a no-op.
func (e *Engine) ImportTransactions(ctx context.Context, batch []ledger.Transaction) (*ledger.AppState, error) {
	return e.mutate(ctx, "import_transactions", func(draft *ledger.AppState) error {
		draft.Transactions = ledger.Merge(draft.Transactions, batch)
		return nil
	})
}
