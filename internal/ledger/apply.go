package ledger

// ApplyResult carries the updated accounts and the grown idempotency set
// out of ApplyToAccounts. Callers persist the returned set and pass it
// back on the next recompute.
type ApplyResult struct {
	Accounts   []Account
	AppliedIDs IDSet
}

// ApplyToAccounts applies each not-yet-applied transaction amount to its
// account balance and marks the transaction id applied.
//
// A transaction referencing an account outside this snapshot is skipped
// tolerantly: it stays unapplied and is not an error. Re-running with the
// same applied set produces no change, and because addition is commutative
// the result depends only on the set of applied transactions, not their
// order.
func ApplyToAccounts(accounts []Account, transactions []Transaction, appliedIDs IDSet) ApplyResult {
	next := append([]Account(nil), accounts...)
	applied := appliedIDs.Clone()

	index := make(map[string]int, len(next))
	for i, a := range next {
		index[a.ID] = i
	}

	for _, tx := range transactions {
		if applied.Has(tx.ID) {
			continue
		}
		i, ok := index[tx.AccountID]
		if !ok {
			// Unknown account: tolerate and leave unapplied.
			continue
		}
		next[i].Balance = next[i].Balance.Add(tx.Amount)
		applied.Add(tx.ID)
	}

	return ApplyResult{Accounts: next, AppliedIDs: applied}
}
