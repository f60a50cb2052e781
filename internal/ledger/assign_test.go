package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-sh/envelope/internal/money"
)

func TestAssignToEnvelope_RecordsAssignmentAndClearsUnassigned(t *testing.T) {
	txs := []Transaction{tx("t1", "a1", -600)}
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})
	inbox := BuildInbox(txs, nil)
	require.Equal(t, []string{"t1"}, inbox.UnassignedTransactionIDs)

	assignment := TransactionAssignment{
		TransactionID:    "t1",
		EnvelopeID:       "env-1",
		AssignedByUserID: "user-1",
		AssignedAt:       day(2),
	}

	next, err := AssignToEnvelope(inbox, txs, budget, assignment)
	require.NoError(t, err)

	assert.Empty(t, next.UnassignedTransactionIDs)
	assert.Equal(t, assignment, next.AssignmentsByTransactionID["t1"])
	// Original inbox untouched.
	assert.Equal(t, []string{"t1"}, inbox.UnassignedTransactionIDs)
}

func TestAssignToEnvelope_UnknownTransactionFails(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})
	inbox := BuildInbox(nil, nil)

	_, err := AssignToEnvelope(inbox, nil, budget, TransactionAssignment{TransactionID: "ghost", EnvelopeID: "env-1"})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAssignToEnvelope_UnknownEnvelopeFails(t *testing.T) {
	txs := []Transaction{tx("t1", "a1", -600)}
	budget := testBudget(0)
	inbox := BuildInbox(txs, nil)

	_, err := AssignToEnvelope(inbox, txs, budget, TransactionAssignment{TransactionID: "t1", EnvelopeID: "env-gone"})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAssignToEnvelope_LastWriteWinsOnReassign(t *testing.T) {
	txs := []Transaction{tx("t1", "a1", -600)}
	budget := testBudget(0,
		Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()},
		Envelope{ID: "env-2", Name: "Dining", Balance: money.Zero()},
	)
	inbox := BuildInbox(txs, nil)

	first, err := AssignToEnvelope(inbox, txs, budget, TransactionAssignment{TransactionID: "t1", EnvelopeID: "env-1", AssignedByUserID: "user-1", AssignedAt: day(2)})
	require.NoError(t, err)

	second, err := AssignToEnvelope(first, txs, budget, TransactionAssignment{TransactionID: "t1", EnvelopeID: "env-2", AssignedByUserID: "user-2", AssignedAt: day(3)})
	require.NoError(t, err)

	assert.Equal(t, "env-2", second.AssignmentsByTransactionID["t1"].EnvelopeID)
	assert.Equal(t, "user-2", second.AssignmentsByTransactionID["t1"].AssignedByUserID)
	assert.Len(t, second.AssignmentsByTransactionID, 1)
}
