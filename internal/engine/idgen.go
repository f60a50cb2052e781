package engine

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints ids for new domain objects (transactions, envelopes).
// Implemented by UUIDGenerator (production) and FixedGenerator (tests).
type IDGenerator interface {
	// NewID returns a fresh id carrying the given kind prefix,
	// e.g. NewID("tx") -> "tx-<uuid>".
	NewID(kind string) string
}

// UUIDGenerator mints time-sortable UUIDv7 ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids sort by
// creation time - convenient when eyeballing a snapshot document.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// NewID returns "<kind>-<uuidv7>".
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDGenerator) NewID(kind string) string {
	return kind + "-" + uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids for testing.
// Deterministic ids make snapshot assertions and golden comparisons
// exact.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order,
// ignoring the kind prefix.
//
// Example:
//
//	gen := NewFixedGenerator("tx-1", "env-1")
//	gen.NewID("tx")  // "tx-1"
//	gen.NewID("env") // "env-1"
//	gen.NewID("tx")  // panic: all ids exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// NewID returns the next predetermined id.
//
// Panics when all ids are consumed. Fail-fast: the test tried to create
// more objects than it declared.
func (g *FixedGenerator) NewID(kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
