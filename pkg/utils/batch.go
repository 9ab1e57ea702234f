package utils

import "github.com/google/uuid"

const (
	DefaultBatchSize = 500
	MaxBatchSize     = 5000
)

// NormalizeBatchSize clamps size into [1, MaxBatchSize], using DefaultBatchSize for non-positive values
func NormalizeBatchSize(size int) int {
	if size <= 0 {
		return DefaultBatchSize
	}
	if size > MaxBatchSize {
		return MaxBatchSize
	}
	return size
}

// KeysetCursor walks a table ordered by id in fixed-size batches
type KeysetCursor struct {
	After uuid.UUID
	Limit int
	done  bool
}

// NewKeysetCursor starts before the first id
func NewKeysetCursor(limit int) *KeysetCursor {
	return &KeysetCursor{After: uuid.Nil, Limit: NormalizeBatchSize(limit)}
}

// Advance records the last id of a fetched batch and its size.
// A short batch ends the walk.
func (c *KeysetCursor) Advance(lastID uuid.UUID, fetched int) {
	if fetched > 0 {
		c.After = lastID
	}
	if fetched < c.Limit {
		c.done = true
	}
}

// Done reports whether the last batch was short
func (c *KeysetCursor) Done() bool {
	return c.done
}
