// Package harness runs YAML-defined budget scenarios against the real
// engine and compares the resulting snapshot against expectations or
// golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	steps:
//	  - command: seed
//	  - command: tx_add
//	    account: acc-1
//	    cents: 200000
//	    description: paycheck
//	  - command: envelope_create
//	    name: Groceries
//	  - command: allocate
//	    envelope: env-1
//	    cents: 150000
//	  - command: assign
//	    transaction: tx-1
//	    envelope: env-1
//	expect:
//	  available_to_assign: 50000
//	  envelopes:
//	    Groceries: 90000
//	  accounts:
//	    acc-1: 140000
//	  unassigned: []
//
// A step may declare expect_error with a domain error code
// (e.g. INSUFFICIENT_AVAILABLE_FUNDS); the step then must fail with that
// code and the snapshot must be left untouched by it.
//
// # Deterministic Execution
//
// Each scenario runs against a fresh in-memory store with a fixed clock
// (advanced one minute per step) and sequential ids (tx-1, env-1, ...).
// Identical runs produce byte-identical snapshots, which makes golden
// file comparison exact.
package harness
