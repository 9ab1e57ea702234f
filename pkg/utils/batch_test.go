package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeBatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, NormalizeBatchSize(0))
	assert.Equal(t, DefaultBatchSize, NormalizeBatchSize(-4))
	assert.Equal(t, 20, NormalizeBatchSize(20))
	assert.Equal(t, MaxBatchSize, NormalizeBatchSize(MaxBatchSize+1))
}

func TestKeysetCursor(t *testing.T) {
	c := NewKeysetCursor(2)
	assert.Equal(t, uuid.Nil, c.After)
	assert.False(t, c.Done())

	first := GenerateUUIDv7()
	c.Advance(first, 2)
	assert.Equal(t, first, c.After)
	assert.False(t, c.Done())

	c.Advance(uuid.Nil, 0)
	assert.Equal(t, first, c.After, "empty batch keeps the cursor")
	assert.True(t, c.Done())
}
