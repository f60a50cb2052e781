package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one budget flow test: a sequence of engine commands
// plus expectations on the final snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order against a fresh engine.
	Steps []Step `yaml:"steps"`

	// Expect validates the final snapshot. Optional when the scenario is
	// golden-only.
	Expect *ExpectState `yaml:"expect,omitempty"`
}

// Step is a single engine command invocation.
type Step struct {
	// Command selects the engine command:
	// seed, envelope_create, tx_add, allocate, assign.
	Command string `yaml:"command"`

	// Name is the envelope name (envelope_create).
	Name string `yaml:"name,omitempty"`

	// Account is the account id (tx_add).
	Account string `yaml:"account,omitempty"`

	// Envelope is the envelope id (allocate, assign).
	Envelope string `yaml:"envelope,omitempty"`

	// Transaction is the transaction id (assign).
	Transaction string `yaml:"transaction,omitempty"`

	// Cents is the amount (tx_add: signed; allocate: positive).
	Cents int64 `yaml:"cents,omitempty"`

	// Description is the transaction description (tx_add).
	Description string `yaml:"description,omitempty"`

	// ExpectError, when set, requires the step to fail with this domain
	// error code instead of succeeding.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ExpectState validates the final snapshot. All fields are subset
// matches over the snapshot; unlisted envelopes and accounts are not
// checked.
type ExpectState struct {
	// AvailableToAssign is the expected pool balance in cents.
	AvailableToAssign *int64 `yaml:"available_to_assign,omitempty"`

	// Envelopes maps envelope name to expected balance in cents.
	Envelopes map[string]int64 `yaml:"envelopes,omitempty"`

	// Accounts maps account id to expected balance in cents.
	Accounts map[string]int64 `yaml:"accounts,omitempty"`

	// Unassigned is the expected inbox content, in order. nil skips the
	// check; an empty list requires an empty inbox.
	Unassigned *[]string `yaml:"unassigned,omitempty"`
}

// Command name constants.
const (
	CmdSeed           = "seed"
	CmdEnvelopeCreate = "envelope_create"
	CmdTxAdd          = "tx_add"
	CmdAllocate       = "allocate"
	CmdAssign         = "assign"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	switch step.Command {
	case CmdSeed:
		// No arguments.
	case CmdEnvelopeCreate:
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for envelope_create", index)
		}
	case CmdTxAdd:
		if step.Account == "" {
			return fmt.Errorf("steps[%d]: account is required for tx_add", index)
		}
		if step.Cents == 0 {
			return fmt.Errorf("steps[%d]: cents must be non-zero for tx_add", index)
		}
	case CmdAllocate:
		if step.Envelope == "" {
			return fmt.Errorf("steps[%d]: envelope is required for allocate", index)
		}
		if step.Cents <= 0 {
			return fmt.Errorf("steps[%d]: cents must be positive for allocate", index)
		}
	case CmdAssign:
		if step.Transaction == "" {
			return fmt.Errorf("steps[%d]: transaction is required for assign", index)
		}
		if step.Envelope == "" {
			return fmt.Errorf("steps[%d]: envelope is required for assign", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: command is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown command %q", index, step.Command)
	}
	return nil
}
