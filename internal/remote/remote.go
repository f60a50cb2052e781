// Package remote reconciles a device's snapshot with the shared household
// document using optimistic concurrency.
//
// The remote store owns a monotonically increasing revision per household.
// Push is a compare-and-swap on that revision: a stale expected revision
// fails with ConflictError and writes nothing. There is no distributed
// lock and no merge below whole-snapshot granularity; sync is advisory,
// a device that never syncs remains fully usable locally.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/envelope-sh/envelope/internal/ledger"
)

// Snapshot is the remote household document: the full serialized AppState
// guarded by a revision.
type Snapshot struct {
	Rev       int64
	State     *ledger.AppState
	UpdatedBy string
	UpdatedAt time.Time
}

// PushArgs carries a compare-and-swap write.
// ExpectedRev must equal the stored revision (0 when no document exists
// yet); on success the document is stored at ExpectedRev+1.
type PushArgs struct {
	HouseholdID string
	ExpectedRev int64
	NextState   *ledger.AppState
	UpdatedBy   string
}

// Repository is the sync port the engine pushes through.
type Repository interface {
	// Pull reads the current household document, or nil if none exists.
	Pull(ctx context.Context, householdID string) (*Snapshot, error)

	// Push performs the revision-gated compare-and-swap and returns the
	// new revision. Fails with ConflictError on a revision mismatch; the
	// stored document is untouched in that case.
	Push(ctx context.Context, args PushArgs) (int64, error)

	// Clear deletes the household document. Used by explicit resets only.
	Clear(ctx context.Context, householdID string) error
}

// ConflictError reports a compare-and-swap failure: another device pushed
// since this one last synced.
type ConflictError struct {
	HouseholdID string
	ExpectedRev int64
	ActualRev   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sync conflict for household %s: expected rev %d, remote is at %d",
		e.HouseholdID, e.ExpectedRev, e.ActualRev)
}

// IsConflict returns true if the error is a sync conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// TransportError reports that the remote store was unreachable or the call
// failed for a non-conflict reason (timeout, I/O, auth). Transport errors
// never unwind an already-persisted local mutation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport returns true if the error is a transport failure.
// Uses errors.As to handle wrapped errors.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
