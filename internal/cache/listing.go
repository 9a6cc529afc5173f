// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"investing/internal/models"
)

const (
	// listingKeyPrefix is the Valkey key prefix for cached listings.
	listingKeyPrefix = "listing:"

	// DefaultListingTTL is how long a public listing stays cached.
	DefaultListingTTL = 30 * time.Second
)

// ListingCache stores serialized public post listings. A nil *ListingCache
// is valid and caches nothing, so callers need no "cache enabled" checks.
// Cache errors are logged and treated as misses; they never fail a request.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get returns the cached listing for key.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]models.PostSummary, bool) {
	if lc == nil {
		return nil, false
	}
	raw, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}

	var items []models.PostSummary
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("listing cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return items, true
}

// Set stores a listing under key with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, items []models.PostSummary) {
	if lc == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		slog.Warn("listing cache encode error", "key", key, "error", err)
		return
	}
	if err := lc.client.Set(ctx, listingKeyPrefix+key, raw, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// InvalidateAll drops every cached listing. Any post or category write can
// change any listing, so there is no finer-grained invalidation.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("listing cache cleared", "deleted", deleted)
	}
}

// AllPostsKey returns the key of the unfiltered public listing.
func AllPostsKey(page models.Page) string {
	return fmt.Sprintf("all:%d:%d", page.Limit, page.Skip)
}

// CategoryPostsKey returns the key of one category's public listing.
func CategoryPostsKey(slug string, page models.Page) string {
	return fmt.Sprintf("category:%s:%d:%d", slug, page.Limit, page.Skip)
}
