package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

// Cache key prefixes and TTLs.
const (
	resultKeyPrefix = "syncresult:acct:"
	resultAllKey    = "syncresult:all"

	// DefaultResultTTL is the TTL for cached sync results. Results older
	// than this are considered stale for dashboard reads.
	DefaultResultTTL = 24 * time.Hour
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// SetAccountResult stores the latest sync result for one account.
func (c *Cache) SetAccountResult(ctx context.Context, res *model.SyncResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding sync result: %w", err)
	}

	key := resultKeyPrefix + res.AccountID
	if err := c.client.Set(ctx, key, payload, DefaultResultTTL).Err(); err != nil {
		return fmt.Errorf("caching sync result: %w", err)
	}
	return nil
}

// SetGlobalResults stores the latest sync-all results and updates each
// account's individual slot.
func (c *Cache) SetGlobalResults(ctx context.Context, results []*model.SyncResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding sync results: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, resultAllKey, payload, DefaultResultTTL)
	for _, res := range results {
		individual, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding sync result: %w", err)
		}
		pipe.Set(ctx, resultKeyPrefix+res.AccountID, individual, DefaultResultTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching sync results: %w", err)
	}
	return nil
}

// GetAccountResult retrieves the latest cached result for one account.
// Returns ErrCacheMiss if nothing is cached.
func (c *Cache) GetAccountResult(ctx context.Context, accountID string) (*model.SyncResult, error) {
	raw, err := c.client.Get(ctx, resultKeyPrefix+accountID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached result: %w", err)
	}

	res := &model.SyncResult{}
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, fmt.Errorf("decoding cached result: %w", err)
	}
	return res, nil
}

// GetGlobalResults retrieves the latest cached sync-all results.
// Returns ErrCacheMiss if nothing is cached.
func (c *Cache) GetGlobalResults(ctx context.Context) ([]*model.SyncResult, error) {
	raw, err := c.client.Get(ctx, resultAllKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached results: %w", err)
	}

	var results []*model.SyncResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decoding cached results: %w", err)
	}
	return results, nil
}
