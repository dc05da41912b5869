// Copyright (c) 2026 Shopcore Team
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cache provides a Redis-backed cache for hot catalog listings.
// The cache is an optimization only: every operation fails open, so a Redis
// outage degrades to plain database reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopcore/shopcore/internal/logging"
	"github.com/shopcore/shopcore/internal/model"
)

const productsKey = "catalog:products"

// Catalog caches the active-product listing.
type Catalog struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalog connects a catalog cache to the given Redis address.
// A zero ttl defaults to one minute.
func NewCatalog(addr, password string, dbNum int, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = time.Minute
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})
	return &Catalog{rdb: rdb, ttl: ttl}
}

// GetProducts returns the cached product listing and whether it was present.
func (c *Catalog) GetProducts(ctx context.Context) ([]model.Product, bool) {
	raw, err := c.rdb.Get(ctx, productsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Debugf("cache: get %s failed: %v", productsKey, err)
		}
		return nil, false
	}
	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		logging.Debugf("cache: decode %s failed: %v", productsKey, err)
		return nil, false
	}
	return products, true
}

// SetProducts stores the product listing with the configured TTL.
func (c *Catalog) SetProducts(ctx context.Context, products []model.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		logging.Debugf("cache: encode %s failed: %v", productsKey, err)
		return
	}
	if err := c.rdb.Set(ctx, productsKey, raw, c.ttl).Err(); err != nil {
		logging.Debugf("cache: set %s failed: %v", productsKey, err)
	}
}

// Invalidate drops the cached listing. Called after any product mutation.
func (c *Catalog) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, productsKey).Err(); err != nil {
		logging.Debugf("cache: invalidate %s failed: %v", productsKey, err)
	}
}

// Ping verifies the Redis connection.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (c *Catalog) Close() error {
	return c.rdb.Close()
}
