// Package store persists the device's household snapshot.
//
// Each device holds exactly one serialized AppState document per
// household, written as a whole on every command. There are no partial or
// field-level writes: the snapshot is the unit of persistence.
package store

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

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added sync_meta table for last-synced revision tracking
const currentSchemaVersion = 1

// Store provides durable storage for the local snapshot document.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadState reads the persisted snapshot for a household.
// Returns (nil, nil) when no snapshot has been saved yet.
func (s *Store) LoadState(ctx context.Context, householdID string) (*ledger.AppState, error) {
	var stateJSON []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM snapshots WHERE household_id = ?
	`, householdID).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return ledger.DecodeState(stateJSON)
}

// SaveState writes the snapshot as one document, replacing any previous
// snapshot for the household.
func (s *Store) SaveState(ctx context.Context, state *ledger.AppState) error {
	stateJSON, err := ledger.EncodeState(state)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (household_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(household_id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, state.HouseholdID, stateJSON, state.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// ClearState deletes the household snapshot and its sync metadata.
func (s *Store) ClearState(ctx context.Context, householdID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE household_id = ?`, householdID); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_meta WHERE household_id = ?`, householdID); err != nil {
		return fmt.Errorf("clear sync meta: %w", err)
	}
	return nil
}

// LastSyncedRev reads the remote revision this device last reconciled
// against. Zero when the device has never synced.
func (s *Store) LastSyncedRev(ctx context.Context, householdID string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `
		SELECT last_rev FROM sync_meta WHERE household_id = ?
	`, householdID).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last synced rev: %w", err)
	}
	return rev, nil
}

// SetLastSyncedRev records the remote revision after a successful push or
// a conflict-recovery pull.
func (s *Store) SetLastSyncedRev(ctx context.Context, householdID string, rev int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_meta (household_id, last_rev)
		VALUES (?, ?)
		ON CONFLICT(household_id) DO UPDATE SET last_rev = excluded.last_rev
	`, householdID, rev)
	if err != nil {
		return fmt.Errorf("set last synced rev: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the sync_meta table for databases created before sync
// metadata existed. New databases get this from schema.sql; CREATE TABLE
// IF NOT EXISTS makes the migration a no-op for them.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_meta (
			household_id TEXT PRIMARY KEY,
			last_rev INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
