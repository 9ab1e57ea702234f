package cache

import (
	"context"
	"time"

	redisclient "parcel-ledger.backend/pkg/redis"
)

const fallbackCodePrefix = "parcel:fallback:"

var setNXValue = redisclient.SetNX

// FallbackCodeRegistry records issued fallback codes so two packages never
// receive the same random code while the entry lives.
type FallbackCodeRegistry struct {
	ttl time.Duration
}

// NewFallbackCodeRegistry creates a registry; ttl 0 keeps claims forever
func NewFallbackCodeRegistry(ttl time.Duration) *FallbackCodeRegistry {
	return &FallbackCodeRegistry{ttl: ttl}
}

// Claim reserves code. It returns false when the code was already issued.
func (r *FallbackCodeRegistry) Claim(ctx context.Context, code string) (bool, error) {
	return setNXValue(ctx, fallbackCodePrefix+code, time.Now().UTC().Format(time.RFC3339), r.ttl)
}
