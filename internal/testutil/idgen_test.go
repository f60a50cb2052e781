package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator_CountsPerKind(t *testing.T) {
	gen := NewSequentialIDGenerator()

	assert.Equal(t, "tx-1", gen.NewID("tx"))
	assert.Equal(t, "tx-2", gen.NewID("tx"))
	assert.Equal(t, "env-1", gen.NewID("env"))
	assert.Equal(t, "tx-3", gen.NewID("tx"))
}
