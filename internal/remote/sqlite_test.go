package remote

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/money"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func snapshotState(available int64) *ledger.AppState {
	return &ledger.AppState{
		Version:     ledger.StateVersion,
		HouseholdID: "household-1",
		Budget: ledger.Budget{
			ID:                "household-1",
			AvailableToAssign: money.FromCents(available),
			Envelopes:         []ledger.Envelope{},
		},
		Inbox: ledger.TransactionInbox{
			UnassignedTransactionIDs:   []string{},
			AssignmentsByTransactionID: map[string]ledger.TransactionAssignment{},
		},
		AppliedAccountTransactionIDs: ledger.NewIDSet(),
		AppliedBudgetTransactionIDs:  ledger.NewIDSet(),
		UpdatedAt:                    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPull_NoDocument(t *testing.T) {
	repo := openTestRepo(t)

	snap, err := repo.Pull(context.Background(), "household-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPush_CreateRequiresExpectedRevZero(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.Push(ctx, PushArgs{
		HouseholdID: "household-1",
		ExpectedRev: 3,
		NextState:   snapshotState(0),
		UpdatedBy:   "user-1",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// Nothing was written.
	snap, err := repo.Pull(ctx, "household-1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPush_CreateThenPull(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	rev, err := repo.Push(ctx, PushArgs{
		HouseholdID: "household-1",
		ExpectedRev: 0,
		NextState:   snapshotState(2000),
		UpdatedBy:   "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	snap, err := repo.Pull(ctx, "household-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(1), snap.Rev)
	assert.Equal(t, "user-1", snap.UpdatedBy)
	assert.Equal(t, int64(2000), snap.State.Budget.AvailableToAssign.Cents())
}

func TestPush_CASIncrementsByExactlyOne(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	rev1, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 0, NextState: snapshotState(100), UpdatedBy: "user-1"})
	require.NoError(t, err)
	rev2, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: rev1, NextState: snapshotState(200), UpdatedBy: "user-2"})
	require.NoError(t, err)

	assert.Equal(t, rev1+1, rev2)
}

func TestPush_StaleRevConflictLeavesDocumentUntouched(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 0, NextState: snapshotState(100), UpdatedBy: "user-1"})
	require.NoError(t, err)
	_, err = repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 1, NextState: snapshotState(200), UpdatedBy: "user-2"})
	require.NoError(t, err)

	// Device still at rev 1 pushes: must conflict, must write nothing.
	_, err = repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 1, NextState: snapshotState(999), UpdatedBy: "user-1"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(1), ce.ExpectedRev)
	assert.Equal(t, int64(2), ce.ActualRev)

	snap, err := repo.Pull(ctx, "household-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Rev)
	assert.Equal(t, int64(200), snap.State.Budget.AvailableToAssign.Cents())
	assert.Equal(t, "user-2", snap.UpdatedBy)
}

func TestPush_IndependentHouseholds(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	a := snapshotState(100)
	b := snapshotState(200)
	b.HouseholdID = "household-2"
	b.Budget.ID = "household-2"

	_, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 0, NextState: a, UpdatedBy: "user-1"})
	require.NoError(t, err)
	_, err = repo.Push(ctx, PushArgs{HouseholdID: "household-2", ExpectedRev: 0, NextState: b, UpdatedBy: "user-1"})
	require.NoError(t, err)

	snapA, err := repo.Pull(ctx, "household-1")
	require.NoError(t, err)
	snapB, err := repo.Pull(ctx, "household-2")
	require.NoError(t, err)
	assert.Equal(t, int64(100), snapA.State.Budget.AvailableToAssign.Cents())
	assert.Equal(t, int64(200), snapB.State.Budget.AvailableToAssign.Cents())
}

func TestClear_RemovesDocument(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 0, NextState: snapshotState(100), UpdatedBy: "user-1"})
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx, "household-1"))

	snap, err := repo.Pull(ctx, "household-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	// After a clear, creation starts over from rev 0.
	rev, err := repo.Push(ctx, PushArgs{HouseholdID: "household-1", ExpectedRev: 0, NextState: snapshotState(50), UpdatedBy: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsConflict(&ConflictError{}))
	assert.False(t, IsConflict(assert.AnError))
	assert.True(t, IsTransport(&TransportError{Op: "pull", Err: assert.AnError}))
	assert.False(t, IsTransport(assert.AnError))
}
