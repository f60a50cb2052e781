package ledger

// BuildInbox derives the triage view from the transaction list and the
// existing assignment table.
//
// A transaction is unassigned iff it has neither a direct envelope link
// nor an assignment record. Input transaction order is preserved; there is
// no independent sort. Pure and total: no failure modes.
func BuildInbox(transactions []Transaction, existingAssignments map[string]TransactionAssignment) TransactionInbox {
	unassigned := make([]string, 0)
	for _, tx := range transactions {
		_, assigned := existingAssignments[tx.ID]
		if tx.EnvelopeID == "" && !assigned {
			unassigned = append(unassigned, tx.ID)
		}
	}

	assignments := make(map[string]TransactionAssignment, len(existingAssignments))
	for id, a := range existingAssignments {
		assignments[id] = a
	}

	return TransactionInbox{
		UnassignedTransactionIDs:   unassigned,
		AssignmentsByTransactionID: assignments,
	}
}
