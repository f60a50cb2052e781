package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/envelope-sh/envelope/internal/engine"
	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/store"
	"github.com/envelope-sh/envelope/internal/testutil"
)

// Result holds the final snapshot and any assertion failures.
type Result struct {
	// State is the snapshot after the last step.
	State *ledger.AppState

	// Errors lists step and expectation failures. Empty means pass.
	Errors []string
}

// Pass reports whether the scenario succeeded.
func (r *Result) Pass() bool { return len(r.Errors) == 0 }

func (r *Result) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// scenarioEpoch is the fixed clock start for every scenario run.
var scenarioEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Run executes a scenario against a fresh engine.
//
// Each scenario runs in its own in-memory database with a fixed clock
// (one minute per step) and sequential ids, so repeated runs produce
// byte-identical snapshots. A returned error means the harness itself
// broke; scenario failures land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewFixedClock(scenarioEpoch)
	eng := engine.New(st, nil, "household-1", "user-1",
		engine.WithNow(clock.Now),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator()),
	)

	ctx := context.Background()
	result := &Result{}

	for i, step := range scenario.Steps {
		err := executeStep(ctx, eng, &step)
		checkStepOutcome(result, i, &step, err)
		clock.Advance(time.Minute)
	}

	state, err := eng.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final snapshot: %w", err)
	}
	result.State = state

	if scenario.Expect != nil {
		evaluateExpect(result, scenario.Expect)
	}
	return result, nil
}

func executeStep(ctx context.Context, eng *engine.Engine, step *Step) error {
	var err error
	switch step.Command {
	case CmdSeed:
		_, err = eng.Seed(ctx)
	case CmdEnvelopeCreate:
		_, err = eng.CreateEnvelope(ctx, step.Name)
	case CmdTxAdd:
		_, err = eng.AddManualTransaction(ctx, step.Account, step.Cents, step.Description)
	case CmdAllocate:
		_, err = eng.AllocateToEnvelope(ctx, step.Envelope, step.Cents)
	case CmdAssign:
		_, err = eng.AssignTransaction(ctx, step.Transaction, step.Envelope)
	default:
		// Unreachable after scenario validation.
		err = fmt.Errorf("unknown command %q", step.Command)
	}
	return err
}

func checkStepOutcome(result *Result, index int, step *Step, err error) {
	if step.ExpectError == "" {
		if err != nil {
			result.addErrorf("steps[%d] %s: unexpected error: %v", index, step.Command, err)
		}
		return
	}

	if err == nil {
		result.addErrorf("steps[%d] %s: expected error %s, step succeeded", index, step.Command, step.ExpectError)
		return
	}
	var de *ledger.DomainError
	if !errors.As(err, &de) {
		result.addErrorf("steps[%d] %s: expected domain error %s, got: %v", index, step.Command, step.ExpectError, err)
		return
	}
	if string(de.Code) != step.ExpectError {
		result.addErrorf("steps[%d] %s: expected error %s, got %s", index, step.Command, step.ExpectError, de.Code)
	}
}

func evaluateExpect(result *Result, expect *ExpectState) {
	state := result.State

	if expect.AvailableToAssign != nil {
		got := state.Budget.AvailableToAssign.Cents()
		if got != *expect.AvailableToAssign {
			result.addErrorf("available_to_assign = %d, want %d", got, *expect.AvailableToAssign)
		}
	}

	for name, wantCents := range expect.Envelopes {
		found := false
		for _, env := range state.Budget.Envelopes {
			if env.Name == name {
				found = true
				if env.Balance.Cents() != wantCents {
					result.addErrorf("envelope %q balance = %d, want %d", name, env.Balance.Cents(), wantCents)
				}
			}
		}
		if !found {
			result.addErrorf("envelope %q not found in snapshot", name)
		}
	}

	for id, wantCents := range expect.Accounts {
		found := false
		for _, a := range state.Accounts {
			if a.ID == id {
				found = true
				if a.Balance.Cents() != wantCents {
					result.addErrorf("account %s balance = %d, want %d", id, a.Balance.Cents(), wantCents)
				}
			}
		}
		if !found {
			result.addErrorf("account %s not found in snapshot", id)
		}
	}

	if expect.Unassigned != nil {
		got := state.Inbox.UnassignedTransactionIDs
		want := *expect.Unassigned
		if len(got) != len(want) {
			result.addErrorf("unassigned = %v, want %v", got, want)
		} else {
			for i := range want {
				if got[i] != want[i] {
					result.addErrorf("unassigned = %v, want %v", got, want)
					break
				}
			}
		}
	}
}
