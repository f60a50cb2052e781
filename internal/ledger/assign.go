package ledger

// AssignToEnvelope records that a transaction should debit an envelope.
// It does not move money; the recompute pipeline applies the assignment.
//
// Fails with NotFoundError when the transaction or envelope id is absent
// from the snapshot. Last write wins on reassignment. The transaction id
// is removed from the unassigned list if present.
func AssignToEnvelope(inbox TransactionInbox, transactions []Transaction, budget Budget, assignment TransactionAssignment) (TransactionInbox, error) {
	txExists := false
	for _, t := range transactions {
		if t.ID == assignment.TransactionID {
			txExists = true
			break
		}
	}
	if !txExists {
		return inbox, NewNotFoundError("transaction", assignment.TransactionID)
	}

	if budget.Envelope(assignment.EnvelopeID) == nil {
		return inbox, NewNotFoundError("envelope", assignment.EnvelopeID)
	}

	unassigned := make([]string, 0, len(inbox.UnassignedTransactionIDs))
	for _, id := range inbox.UnassignedTransactionIDs {
		if id != assignment.TransactionID {
			unassigned = append(unassigned, id)
		}
	}

	assignments := make(map[string]TransactionAssignment, len(inbox.AssignmentsByTransactionID)+1)
	for id, a := range inbox.AssignmentsByTransactionID {
		assignments[id] = a
	}
	assignments[assignment.TransactionID] = assignment

	return TransactionInbox{
		UnassignedTransactionIDs:   unassigned,
		AssignmentsByTransactionID: assignments,
	}, nil
}
