// Package ledger holds the household snapshot types and the pure transforms
// that operate on them: the account applier, the budget allocator/spender,
// the inbox deriver, and the transaction merger.
//
// Everything in this package is a pure function over values. Transforms never
// mutate their inputs; they return updated copies. Persistence, id
// generation, and sync live in other packages and are composed by the engine.
//
// INVARIANTS:
//   - A transaction is applied to an account balance exactly once, tracked
//     by the snapshot's applied-account id set.
//   - A transaction is applied to the budget at most once, tracked by the
//     independent applied-budget id set (a transaction can hit the ledger
//     long before it is ever assigned to an envelope).
//   - availableToAssign never goes negative as the result of an allocation.
package ledger
