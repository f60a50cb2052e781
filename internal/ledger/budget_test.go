package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-sh/envelope/internal/money"
)

func testBudget(available int64, envelopes ...Envelope) Budget {
	return Budget{
		ID:                "household-1",
		AvailableToAssign: money.FromCents(available),
		Envelopes:         envelopes,
	}
}

func envelopeTotal(b Budget) int64 {
	total := b.AvailableToAssign.Cents()
	for _, e := range b.Envelopes {
		total += e.Balance.Cents()
	}
	return total
}

func TestAllocateFunds_MovesMoneyIntoEnvelope(t *testing.T) {
	budget := testBudget(2000, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})

	next, err := AllocateFunds(budget, "env-1", money.FromCents(1500))
	require.NoError(t, err)

	assert.Equal(t, int64(500), next.AvailableToAssign.Cents())
	assert.Equal(t, int64(1500), next.Envelopes[0].Balance.Cents())
}

func TestAllocateFunds_ConservesTotal(t *testing.T) {
	budget := testBudget(5000,
		Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(300)},
		Envelope{ID: "env-2", Name: "Rent", Balance: money.FromCents(700)},
	)
	before := envelopeTotal(budget)

	next, err := AllocateFunds(budget, "env-2", money.FromCents(4999))
	require.NoError(t, err)

	assert.Equal(t, before, envelopeTotal(next))
}

func TestAllocateFunds_OverLimitFailsAndLeavesBudgetUntouched(t *testing.T) {
	budget := testBudget(1000, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})

	next, err := AllocateFunds(budget, "env-1", money.FromCents(1001))

	require.Error(t, err)
	assert.True(t, IsInsufficientFunds(err))
	assert.Equal(t, budget, next, "failed allocation must leave the budget unchanged")
}

func TestAllocateFunds_NonPositiveAmountIsNoop(t *testing.T) {
	budget := testBudget(1000, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})

	for _, cents := range []int64{0, -500} {
		next, err := AllocateFunds(budget, "env-1", money.FromCents(cents))
		require.NoError(t, err)
		assert.Equal(t, budget, next)
	}
}

func TestAllocateFunds_UnknownEnvelopeIsNoop(t *testing.T) {
	budget := testBudget(1000, Envelope{ID: "env-1", Name: "Groceries", Balance: money.Zero()})

	next, err := AllocateFunds(budget, "env-gone", money.FromCents(500))
	require.NoError(t, err)
	assert.Equal(t, budget, next)
}

func TestSpendFromEnvelope_Lenient_AllowsOverspend(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(500)})

	next, err := SpendFromEnvelope(budget, "env-1", money.FromCents(800), SpendLenient)
	require.NoError(t, err)

	assert.Equal(t, int64(-300), next.Envelopes[0].Balance.Cents())
}

func TestSpendFromEnvelope_Strict_RejectsOverspend(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(500)})

	next, err := SpendFromEnvelope(budget, "env-1", money.FromCents(800), SpendStrict)

	require.Error(t, err)
	assert.True(t, IsInsufficientFunds(err))
	assert.Equal(t, budget, next)
}

func TestSpendFromEnvelope_Strict_AllowsExactBalance(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(500)})

	next, err := SpendFromEnvelope(budget, "env-1", money.FromCents(500), SpendStrict)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next.Envelopes[0].Balance.Cents())
}

func TestSpendFromEnvelope_ToleratesStaleEnvelope(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(500)})

	next, err := SpendFromEnvelope(budget, "env-gone", money.FromCents(100), SpendLenient)
	require.NoError(t, err)
	assert.Equal(t, budget, next)
}

func TestSpendFromEnvelope_NonPositiveAmountIsNoop(t *testing.T) {
	budget := testBudget(0, Envelope{ID: "env-1", Name: "Groceries", Balance: money.FromCents(500)})

	next, err := SpendFromEnvelope(budget, "env-1", money.Zero(), SpendLenient)
	require.NoError(t, err)
	assert.Equal(t, budget, next)
}

func TestReceiveIncome_GrowsAvailablePool(t *testing.T) {
	budget := testBudget(100)
	next := ReceiveIncome(budget, money.FromCents(2000))

	assert.Equal(t, int64(2100), next.AvailableToAssign.Cents())
	assert.Equal(t, int64(100), budget.AvailableToAssign.Cents(), "input budget must not change")
}
