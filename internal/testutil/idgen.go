package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator mints readable per-kind ids for tests:
// NewID("tx") returns "tx-1", "tx-2", ...; NewID("env") counts
// independently. Deterministic ids make scenario files and golden
// snapshots legible.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewSequentialIDGenerator creates a generator with all counters at zero.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{counts: make(map[string]int)}
}

// NewID returns the next id for the kind.
func (g *SequentialIDGenerator) NewID(kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counts[kind]++
	return fmt.Sprintf("%s-%d", kind, g.counts[kind])
}
