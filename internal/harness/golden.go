package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/envelope-sh/envelope/internal/ledger"
)

// RunWithGolden executes a scenario and compares the final snapshot
// against a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for the snapshot shape: field
// names, money-as-cents encoding, sorted id sets. A diff here means
// either a behavior change or a serialization change, both of which
// deserve a close look.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	data, err := ledger.EncodeStateIndent(result.State)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
