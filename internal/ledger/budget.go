package ledger

import "github.com/envelope-sh/envelope/internal/money"

// SpendPolicy controls what happens when a spend would drive an envelope
// balance negative.
//
// The two policies are not interchangeable. SpendLenient is the contract
// the recompute pipeline runs under: an expense assigned to an underfunded
// envelope still applies, and the negative balance is the overspend signal
// the UI shows. SpendStrict refuses the spend instead, which only makes
// sense for direct user-initiated spends where there is someone to tell.
type SpendPolicy int

const (
	// SpendLenient permits negative envelope balances (overspend). Default.
	SpendLenient SpendPolicy = iota

	// SpendStrict fails with InsufficientEnvelopeFunds when the spend
	// exceeds the envelope balance.
	SpendStrict
)

// AllocateFunds moves amount from the available-to-assign pool into the
// target envelope.
//
// A non-positive amount is a no-op. An unknown envelope id is tolerated as
// a no-op (stale reference). Allocating more than the available pool fails
// with InsufficientAvailableFunds and leaves the budget unchanged.
//
// Conservation: availableToAssign + the sum of envelope balances is the
// same before and after a successful allocation.
func AllocateFunds(budget Budget, envelopeID string, amount money.Money) (Budget, error) {
	if !amount.IsPositive() {
		return budget, nil
	}
	if amount.GreaterThan(budget.AvailableToAssign) {
		return budget, NewInsufficientAvailableFundsError(envelopeID)
	}

	next := budget
	next.Envelopes = append([]Envelope(nil), budget.Envelopes...)

	found := false
	for i := range next.Envelopes {
		if next.Envelopes[i].ID == envelopeID {
			next.Envelopes[i].Balance = next.Envelopes[i].Balance.Add(amount)
			found = true
			break
		}
	}
	if !found {
		return budget, nil
	}

	next.AvailableToAssign = next.AvailableToAssign.Sub(amount)
	return next, nil
}

// SpendFromEnvelope reduces the target envelope balance by amount.
//
// A non-positive amount or unknown envelope id is a no-op. Under
// SpendStrict a spend larger than the envelope balance fails with
// InsufficientEnvelopeFunds; under SpendLenient it applies and the balance
// goes negative.
func SpendFromEnvelope(budget Budget, envelopeID string, amount money.Money, policy SpendPolicy) (Budget, error) {
	if !amount.IsPositive() {
		return budget, nil
	}

	env := budget.Envelope(envelopeID)
	if env == nil {
		// Stale envelope reference: tolerate.
		return budget, nil
	}

	if policy == SpendStrict && env.Balance.LessThan(amount) {
		return budget, NewInsufficientEnvelopeFundsError(envelopeID)
	}

	next := budget
	next.Envelopes = append([]Envelope(nil), budget.Envelopes...)
	for i := range next.Envelopes {
		if next.Envelopes[i].ID == envelopeID {
			next.Envelopes[i].Balance = next.Envelopes[i].Balance.Sub(amount)
			break
		}
	}
	return next, nil
}

// ReceiveIncome adds amount to the available-to-assign pool.
// Income never lands in an envelope directly; allocation is a separate,
// deliberate step.
func ReceiveIncome(budget Budget, amount money.Money) Budget {
	next := budget
	next.AvailableToAssign = next.AvailableToAssign.Add(amount)
	return next
}
