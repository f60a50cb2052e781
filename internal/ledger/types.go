package ledger

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/envelope-sh/envelope/internal/money"
)

// StateVersion is the current AppState schema version.
const StateVersion = 1

// ImportIDPrefix marks transactions that came from an external data
// provider rather than manual entry. The merger only applies content
// fingerprint dedup to import-sourced transactions; two manual entries
// with identical fields must both survive.
const ImportIDPrefix = "import-"

// Account is a real-world money account. Its balance is mutated only by
// the ledger applier, never directly by commands.
type Account struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Balance money.Money `json:"balance"`
}

// Envelope is a named bucket of money within the household budget.
// Balance may go negative under the lenient spend policy; the UI surfaces
// that as an overspend cue.
type Envelope struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Balance money.Money  `json:"balance"`
	Goal    *money.Money `json:"goal,omitempty"`
}

// Budget holds the available-to-assign pool and the envelope list.
type Budget struct {
	ID                string      `json:"id"`
	AvailableToAssign money.Money `json:"availableToAssign"`
	Envelopes         []Envelope  `json:"envelopes"`
}

// Envelope returns the envelope with the given id, or nil.
func (b Budget) Envelope(id string) *Envelope {
	for i := range b.Envelopes {
		if b.Envelopes[i].ID == id {
			return &b.Envelopes[i]
		}
	}
	return nil
}

// Transaction is a single ledger entry. Positive amounts are income,
// negative amounts are expenses. Immutable after creation except for the
// optional envelope linkage.
type Transaction struct {
	ID          string      `json:"id"`
	AccountID   string      `json:"accountId"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	PostedAt    time.Time   `json:"postedAt"`
	EnvelopeID  string      `json:"envelopeId,omitempty"`
}

// IsImported reports whether the transaction came from an external data
// provider (its id carries the import-source marker).
func (t Transaction) IsImported() bool {
	return len(t.ID) >= len(ImportIDPrefix) && t.ID[:len(ImportIDPrefix)] == ImportIDPrefix
}

// TransactionAssignment links a transaction to the envelope it should
// debit, with audit metadata. One assignment per transaction id; last
// write wins on reassignment.
type TransactionAssignment struct {
	TransactionID    string    `json:"transactionId"`
	EnvelopeID       string    `json:"envelopeId"`
	AssignedByUserID string    `json:"assignedByUserId"`
	AssignedAt       time.Time `json:"assignedAt"`
}

// TransactionInbox is the derived view of transactions awaiting envelope
// assignment. It is rebuilt by BuildInbox on every recompute, never
// hand-edited.
//
// Unassigned ids preserve the snapshot's transaction order; callers must
// not assume any ordering beyond that.
type TransactionInbox struct {
	UnassignedTransactionIDs   []string                         `json:"unassignedTransactionIds"`
	AssignmentsByTransactionID map[string]TransactionAssignment `json:"assignmentsByTransactionId"`
}

// User identifies a household member, used for assignment audit metadata.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// IDSet tracks which transaction ids a domain has already consumed.
// Serializes as a sorted string array so snapshots are deterministic.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports set membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an id. The receiver must be non-nil.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Clone returns an independent copy so transforms stay pure.
func (s IDSet) Clone() IDSet {
	next := make(IDSet, len(s))
	for id := range s {
		next[id] = struct{}{}
	}
	return next
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON writes the set as a sorted array. Always an array, never
// null, so documents round-trip byte-identically.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads the set from a string array.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// AppState is the full household snapshot: the unit of persistence and of
// sync. Commands read-modify-write it as one value; there are no partial
// field-level writes anywhere.
type AppState struct {
	Version      int              `json:"version"`
	HouseholdID  string           `json:"householdId"`
	Users        []User           `json:"users"`
	Budget       Budget           `json:"budget"`
	Accounts     []Account        `json:"accounts"`
	Transactions []Transaction    `json:"transactions"`
	Inbox        TransactionInbox `json:"inbox"`

	// Idempotency guards. Independent sets: ledger application and budget
	// application are logically separate consumptions of a transaction.
	AppliedAccountTransactionIDs IDSet `json:"appliedAccountTransactionIds"`
	AppliedBudgetTransactionIDs  IDSet `json:"appliedBudgetTransactionIds"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction returns the transaction with the given id, or nil.
func (s *AppState) Transaction(id string) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot. The engine mutates only
// drafts produced by Clone, so a failed command never leaves a partially
// updated snapshot behind.
func (s *AppState) Clone() *AppState {
	next := *s
	next.Users = append([]User(nil), s.Users...)
	next.Accounts = append([]Account(nil), s.Accounts...)
	next.Transactions = append([]Transaction(nil), s.Transactions...)
	next.Budget.Envelopes = append([]Envelope(nil), s.Budget.Envelopes...)
	next.Inbox.UnassignedTransactionIDs = append([]string(nil), s.Inbox.UnassignedTransactionIDs...)
	next.Inbox.AssignmentsByTransactionID = make(map[string]TransactionAssignment, len(s.Inbox.AssignmentsByTransactionID))
	for id, a := range s.Inbox.AssignmentsByTransactionID {
		next.Inbox.AssignmentsByTransactionID[id] = a
	}
	next.AppliedAccountTransactionIDs = s.AppliedAccountTransactionIDs.Clone()
	next.AppliedBudgetTransactionIDs = s.AppliedBudgetTransactionIDs.Clone()
	return &next
}
