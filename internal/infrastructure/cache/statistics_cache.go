package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcel-ledger.backend/internal/domain/entities"
	redisclient "parcel-ledger.backend/pkg/redis"
)

const statisticsKey = "ledger:statistics"

var (
	setValue = redisclient.Set
	getValue = redisclient.Get
	delValue = redisclient.Del
)

// cachedStatistics is the stored form; ComputedAt lets readers judge staleness
type cachedStatistics struct {
	Statistics *entities.LedgerStatistics `json:"statistics"`
	ComputedAt time.Time                  `json:"computedAt"`
}

// StatisticsCache keeps the last computed LedgerStatistics in Redis as JSON
type StatisticsCache struct {
	ttl time.Duration
}

// NewStatisticsCache creates a cache whose entries expire after ttl (0 keeps them)
func NewStatisticsCache(ttl time.Duration) *StatisticsCache {
	return &StatisticsCache{ttl: ttl}
}

// Get returns the cached statistics; found is false on a miss
func (c *StatisticsCache) Get(ctx context.Context) (*entities.LedgerStatistics, bool, error) {
	raw, err := getValue(ctx, statisticsKey)
	if redisclient.IsMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read statistics cache: %w", err)
	}

	var entry cachedStatistics
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false, fmt.Errorf("decode statistics cache: %w", err)
	}
	if entry.Statistics == nil {
		return nil, false, nil
	}
	return entry.Statistics, true, nil
}

// Set stores stats, replacing any previous entry
func (c *StatisticsCache) Set(ctx context.Context, stats *entities.LedgerStatistics) error {
	body, err := json.Marshal(cachedStatistics{Statistics: stats, ComputedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return setValue(ctx, statisticsKey, body, c.ttl)
}

// Invalidate drops the cached entry
func (c *StatisticsCache) Invalidate(ctx context.Context) error {
	return delValue(ctx, statisticsKey)
}
