package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInbox_UnassignedIffNoLinkAndNoAssignment(t *testing.T) {
	txs := []Transaction{
		tx("t1", "a1", -100),
		tx("t2", "a1", -200),
		tx("t3", "a1", -300),
	}
	txs[1].EnvelopeID = "env-1" // direct link

	assignments := map[string]TransactionAssignment{
		"t3": {TransactionID: "t3", EnvelopeID: "env-2", AssignedByUserID: "user-1", AssignedAt: day(2)},
	}

	inbox := BuildInbox(txs, assignments)

	assert.Equal(t, []string{"t1"}, inbox.UnassignedTransactionIDs)
	assert.Len(t, inbox.AssignmentsByTransactionID, 1)
}

func TestBuildInbox_PreservesInputOrder(t *testing.T) {
	txs := []Transaction{
		tx("t3", "a1", -1),
		tx("t1", "a1", -2),
		tx("t2", "a1", -3),
	}

	inbox := BuildInbox(txs, nil)

	assert.Equal(t, []string{"t3", "t1", "t2"}, inbox.UnassignedTransactionIDs)
}

func TestBuildInbox_EmptyInputs(t *testing.T) {
	inbox := BuildInbox(nil, nil)

	assert.Empty(t, inbox.UnassignedTransactionIDs)
	assert.NotNil(t, inbox.UnassignedTransactionIDs)
	assert.Empty(t, inbox.AssignmentsByTransactionID)
}

func TestBuildInbox_CopiesAssignmentTable(t *testing.T) {
	assignments := map[string]TransactionAssignment{
		"t1": {TransactionID: "t1", EnvelopeID: "env-1"},
	}

	inbox := BuildInbox(nil, assignments)
	inbox.AssignmentsByTransactionID["t2"] = TransactionAssignment{TransactionID: "t2"}

	assert.Len(t, assignments, 1, "input assignment table must not change")
}
