package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/envelope-sh/envelope/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (insufficient funds, bad reference, ...)
	ExitCommandError = 2 // Command error (bad paths, database not found, ...)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string          `json:"status"`          // "ok" or "error"
	Data   json.RawMessage `json:"data,omitempty"`  // success payload (snapshot document)
	Error  *CLIError       `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // domain error code or "COMMAND_ERROR"
	Message string `json:"message"` // human-readable message
}

// State outputs a snapshot in the configured format: the full document
// for JSON, a budget summary for text.
func (f *OutputFormatter) State(state *ledger.AppState) error {
	if f.Format == "json" {
		doc, err := ledger.EncodeStateIndent(state)
		if err != nil {
			return err
		}
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   doc,
		})
	}
	f.writeStateSummary(state)
	return nil
}

func (f *OutputFormatter) writeStateSummary(state *ledger.AppState) {
	fmt.Fprintf(f.Writer, "Household %s (updated %s)\n",
		state.HouseholdID, state.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f.Writer, "Available to assign: %s\n", state.Budget.AvailableToAssign)

	if len(state.Budget.Envelopes) > 0 {
		fmt.Fprintln(f.Writer, "Envelopes:")
		for _, env := range state.Budget.Envelopes {
			fmt.Fprintf(f.Writer, "  %-20s %s\n", env.Name, env.Balance)
		}
	}

	fmt.Fprintln(f.Writer, "Accounts:")
	for _, a := range state.Accounts {
		fmt.Fprintf(f.Writer, "  %-20s %s\n", a.Name, a.Balance)
	}

	if len(state.Inbox.UnassignedTransactionIDs) > 0 {
		fmt.Fprintf(f.Writer, "Inbox (%d unassigned):\n", len(state.Inbox.UnassignedTransactionIDs))
		for _, id := range state.Inbox.UnassignedTransactionIDs {
			tx := state.Transaction(id)
			if tx == nil {
				continue
			}
			fmt.Fprintf(f.Writer, "  %-12s %10s  %s\n", tx.ID, tx.Amount, tx.Description)
		}
	}
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
			},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting
// JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
