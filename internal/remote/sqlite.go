package remote

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/envelope-sh/envelope/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRepository is a Repository backed by a shared SQLite database
// (one row per household). The database sits on storage all household
// devices can reach; SQLite's transactional writes give us the atomic
// compare-and-swap the revision gate needs.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite creates or opens the shared household database at the given
// path. Applies required pragmas and the schema automatically; safe to
// call multiple times.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY between the CAS read and write.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply remote schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Pull reads the household document, or nil if none exists.
func (r *SQLiteRepository) Pull(ctx context.Context, householdID string) (*Snapshot, error) {
	var (
		rev       int64
		stateJSON []byte
		updatedBy string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT rev, state, updated_by, updated_at
		FROM households
		WHERE household_id = ?
	`, householdID).Scan(&rev, &stateJSON, &updatedBy, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &TransportError{Op: "pull", Err: err}
	}

	state, err := ledger.DecodeState(stateJSON)
	if err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, &ledger.SerializationError{Reason: "bad updated_at timestamp", Err: err}
	}

	return &Snapshot{Rev: rev, State: state, UpdatedBy: updatedBy, UpdatedAt: ts}, nil
}

// Push performs the revision-gated compare-and-swap.
//
// The read-check-write runs inside a single transaction so concurrent
// pushes from other devices serialize: exactly one wins the revision,
// the rest fail with ConflictError and write nothing.
func (r *SQLiteRepository) Push(ctx context.Context, args PushArgs) (int64, error) {
	stateJSON, err := ledger.EncodeState(args.NextState)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &TransportError{Op: "push", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	var currentRev int64
	err = tx.QueryRowContext(ctx, `
		SELECT rev FROM households WHERE household_id = ?
	`, args.HouseholdID).Scan(&currentRev)

	switch {
	case err == sql.ErrNoRows:
		// No document yet: create is allowed only from expectedRev 0.
		if args.ExpectedRev != 0 {
			return 0, &ConflictError{
				HouseholdID: args.HouseholdID,
				ExpectedRev: args.ExpectedRev,
				ActualRev:   0,
			}
		}
		currentRev = 0
	case err != nil:
		return 0, &TransportError{Op: "push", Err: err}
	case currentRev != args.ExpectedRev:
		return 0, &ConflictError{
			HouseholdID: args.HouseholdID,
			ExpectedRev: args.ExpectedRev,
			ActualRev:   currentRev,
		}
	}

	nextRev := currentRev + 1
	_, err = tx.ExecContext(ctx, `
		INSERT INTO households (household_id, rev, state, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(household_id) DO UPDATE SET
			rev = excluded.rev,
			state = excluded.state,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`, args.HouseholdID, nextRev, stateJSON, args.UpdatedBy, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, &TransportError{Op: "push", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &TransportError{Op: "push", Err: err}
	}

	return nextRev, nil
}

// Clear deletes the household document.
func (r *SQLiteRepository) Clear(ctx context.Context, householdID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM households WHERE household_id = ?`, householdID)
	if err != nil {
		return &TransportError{Op: "clear", Err: err}
	}
	return nil
}
