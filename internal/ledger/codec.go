package ledger

import (
	"encoding/json"
	"fmt"
)

// SerializationError reports a persisted or remote document with an
// unexpected shape.
type SerializationError struct {
	Reason string
	Err    error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad snapshot document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("bad snapshot document: %s", e.Reason)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// EncodeState serializes a snapshot for storage. Money fields become bare
// integer cents and absent optional fields are stripped, so the document
// round-trips losslessly and deterministically (id sets sort, map keys
// sort under encoding/json).
func EncodeState(state *AppState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, &SerializationError{Reason: "encode failed", Err: err}
	}
	return data, nil
}

// EncodeStateIndent serializes a snapshot with indentation for golden
// files and human-facing output. Same canonical form as EncodeState.
func EncodeStateIndent(state *AppState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, &SerializationError{Reason: "encode failed", Err: err}
	}
	return data, nil
}

// DecodeState deserializes a stored snapshot document.
// Fails with SerializationError on malformed JSON or a version this build
// does not understand.
func DecodeState(data []byte) (*AppState, error) {
	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &SerializationError{Reason: "decode failed", Err: err}
	}
	if state.Version != StateVersion {
		return nil, &SerializationError{Reason: fmt.Sprintf("unsupported state version %d", state.Version)}
	}
	if state.AppliedAccountTransactionIDs == nil {
		state.AppliedAccountTransactionIDs = NewIDSet()
	}
	if state.AppliedBudgetTransactionIDs == nil {
		state.AppliedBudgetTransactionIDs = NewIDSet()
	}
	if state.Inbox.AssignmentsByTransactionID == nil {
		state.Inbox.AssignmentsByTransactionID = make(map[string]TransactionAssignment)
	}
	if state.Inbox.UnassignedTransactionIDs == nil {
		state.Inbox.UnassignedTransactionIDs = make([]string, 0)
	}
	return &state, nil
}
