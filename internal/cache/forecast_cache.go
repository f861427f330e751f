package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minimart-ai/backend/internal/config"
	"github.com/minimart-ai/backend/internal/forecast"
)

const (
	forecastKeyPrefix     = "forecast:result"
	forecastScanBatchSize = 100
)

// ForecastCache stores forecast results keyed by product and horizon so a
// reorder sweep does not refit the ensemble for every request.
type ForecastCache interface {
	Get(ctx context.Context, productID int64, horizonDays int) (*forecast.Result, bool, error)
	Set(ctx context.Context, result forecast.Result) error
	Invalidate(ctx context.Context, productID int64) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, productID int64, horizonDays int) (*forecast.Result, bool, error) {
	key := buildForecastKey(productID, horizonDays)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result forecast.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, result forecast.Result) error {
	key := buildForecastKey(result.ProductID, result.HorizonDays)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) Invalidate(ctx context.Context, productID int64) error {
	prefix := fmt.Sprintf("%s:%d:", forecastKeyPrefix, productID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, forecastScanBatchSize)
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (n *noopForecastCache) Get(ctx context.Context, productID int64, horizonDays int) (*forecast.Result, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, result forecast.Result) error {
	return nil
}

func (n *noopForecastCache) Invalidate(ctx context.Context, productID int64) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastKey(productID int64, horizonDays int) string {
	return fmt.Sprintf("%s:%d:%d", forecastKeyPrefix, productID, horizonDays)
}
