// Package cache provides a Redis read-through cache for the catalog list
// endpoints the public quotation form polls on every page load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/platform/logger"
)

const (
	categoriesKey        = "catalog:categories"
	itemDetailsKeyPrefix = "catalog:item_details:"

	// DefaultTTL bounds staleness if an invalidation is ever missed.
	DefaultTTL = 10 * time.Minute
)

// ListCache caches catalog list reads in Redis. A nil client disables
// caching; every read falls through to the loader.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a list cache. Pass a nil client to disable caching.
func New(client *redis.Client, log *logger.Logger) *ListCache {
	return &ListCache{
		client: client,
		ttl:    DefaultTTL,
		log:    log,
	}
}

func itemDetailsKey(environment string) string {
	if environment == "" {
		environment = "all"
	}
	return itemDetailsKeyPrefix + environment
}

// Categories returns the cached category list, loading and storing it on a
// miss. Cache failures degrade to the loader, never to an error.
func (c *ListCache) Categories(ctx context.Context, load func(context.Context) ([]repository.Category, error)) ([]repository.Category, error) {
	var cached []repository.Category
	if c.get(ctx, categoriesKey, &cached) {
		return cached, nil
	}

	categories, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, categoriesKey, categories)
	return categories, nil
}

// ItemDetails returns the cached item detail list for an environment filter,
// loading and storing it on a miss.
func (c *ListCache) ItemDetails(ctx context.Context, environment string, load func(context.Context) ([]repository.ItemDetail, error)) ([]repository.ItemDetail, error) {
	key := itemDetailsKey(environment)

	var cached []repository.ItemDetail
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	details, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, details)
	return details, nil
}

// Invalidate drops every cached catalog list. Called on any catalog write;
// the lists are small enough that finer-grained invalidation is not worth
// the bookkeeping.
func (c *ListCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	keys := []string{
		categoriesKey,
		itemDetailsKey(""),
		itemDetailsKey(string(repository.EnvironmentCloud)),
		itemDetailsKey(string(repository.EnvironmentOnPremise)),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil && c.log != nil {
		c.log.Warn("catalog cache invalidation failed", "error", err.Error())
	}
}

func (c *ListCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.log != nil {
			c.log.Warn("catalog cache read failed", "key", key, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		if c.log != nil {
			c.log.Warn("catalog cache payload corrupt", "key", key, "error", err.Error())
		}
		return false
	}
	return true
}

func (c *ListCache) set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		if c.log != nil {
			c.log.Warn("catalog cache marshal failed", "key", key, "error", err.Error())
		}
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn(fmt.Sprintf("catalog cache write failed for %s", key), "error", err.Error())
	}
}
