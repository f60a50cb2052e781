package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/money"
)

func sampleState() *ledger.AppState {
	return &ledger.AppState{
		Version:     ledger.StateVersion,
		HouseholdID: "household-1",
		Budget: ledger.Budget{
			ID:                "household-1",
			AvailableToAssign: money.FromCents(50000),
			Envelopes: []ledger.Envelope{
				{ID: "env-1", Name: "Groceries", Balance: money.FromCents(90000)},
			},
		},
		Accounts: []ledger.Account{
			{ID: "acc-1", Name: "Primary Checking", Balance: money.FromCents(140000)},
		},
		Transactions: []ledger.Transaction{
			{ID: "tx-1", AccountID: "acc-1", Amount: money.FromCents(-600), Description: "coffee", PostedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		},
		Inbox: ledger.TransactionInbox{
			UnassignedTransactionIDs:   []string{"tx-1"},
			AssignmentsByTransactionID: map[string]ledger.TransactionAssignment{},
		},
		AppliedAccountTransactionIDs: ledger.NewIDSet("tx-1"),
		AppliedBudgetTransactionIDs:  ledger.NewIDSet(),
		UpdatedAt:                    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOutputFormatter_TextSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.State(sampleState()))

	out := buf.String()
	assert.Contains(t, out, "Household household-1")
	assert.Contains(t, out, "Available to assign: $500.00")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "$900.00")
	assert.Contains(t, out, "Primary Checking")
	assert.Contains(t, out, "$1,400.00")
	assert.Contains(t, out, "Inbox (1 unassigned)")
	assert.Contains(t, out, "coffee")
}

func TestOutputFormatter_JSONState(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.State(sampleState()))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	state, err := ledger.DecodeState(resp.Data)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), state.Budget.AvailableToAssign.Cents())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("NOT_FOUND", "envelope not found"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "envelope not found", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("VALIDATION", "envelope name must not be empty"))
	assert.Equal(t, "Error [VALIDATION]: envelope name must not be empty\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "text", Writer: out}
	quiet.VerboseLog("should not appear")
	assert.Empty(t, out.String())

	verbose := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	verbose.VerboseLog("opening %s", "envelope.db")
	assert.Empty(t, out.String())
	assert.Equal(t, "opening envelope.db\n", errOut.String())
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", base)

	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.Equal(t, base, errors.Unwrap(err))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitFailure, GetExitCode(base))
}
