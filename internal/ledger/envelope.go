package ledger

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEnvelopeName trims the name, collapses internal whitespace runs
// to single spaces, and applies NFC so composed and decomposed spellings
// of the same name (e.g. "Café") compare equal.
func NormalizeEnvelopeName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// AddEnvelope validates and prepends a new envelope to the budget.
//
// The envelope's name is normalized first. Fails with ValidationError when
// the normalized name is blank or duplicates an existing envelope name
// case-insensitively.
func AddEnvelope(budget Budget, env Envelope) (Budget, error) {
	env.Name = NormalizeEnvelopeName(env.Name)
	if env.Name == "" {
		return budget, NewValidationError("envelope name is required")
	}
	for _, existing := range budget.Envelopes {
		if strings.EqualFold(existing.Name, env.Name) {
			return budget, NewValidationError(fmt.Sprintf("an envelope named %q already exists", existing.Name))
		}
	}

	next := budget
	next.Envelopes = append([]Envelope{env}, budget.Envelopes...)
	return next, nil
}
