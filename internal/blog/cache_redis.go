// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package blog

import (
	stdctx "context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// tallyCacheTTL keeps cached tallies short-lived. The reaction table remains
// the source of truth; a stale read self-corrects within this window.
const tallyCacheTTL = 30 * time.Second

// TallyCache caches reaction tallies in Redis.
//
// All methods degrade gracefully: a cache failure is logged and treated as a
// miss, never surfaced to the caller.
type TallyCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewTallyCache constructs a Redis-backed tally cache.
func NewTallyCache(client *redis.Client, logger *slog.Logger) *TallyCache {
	return &TallyCache{client: client, logger: logger}
}

// key builds the Redis key for a post's tally.
func (cache *TallyCache) key(postID string) string {
	return fmt.Sprintf("blog:tally:%s", postID)
}

// Get returns the cached tally for a post, or nil on a miss.
func (cache *TallyCache) Get(context stdctx.Context, postID string) *Tally {
	payload, err := cache.client.Get(context, cache.key(postID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("tally_cache_get_failed", slog.String("post_id", postID), slog.Any("error", err))
		}
		return nil
	}

	tally := &Tally{}
	if err := json.Unmarshal(payload, tally); err != nil {
		cache.logger.Warn("tally_cache_decode_failed", slog.String("post_id", postID), slog.Any("error", err))
		return nil
	}

	return tally
}

// Set stores the tally for a post with the standard TTL.
func (cache *TallyCache) Set(context stdctx.Context, postID string, tally *Tally) {
	payload, err := json.Marshal(tally)
	if err != nil {
		return
	}

	if err := cache.client.Set(context, cache.key(postID), payload, tallyCacheTTL).Err(); err != nil {
		cache.logger.Warn("tally_cache_set_failed", slog.String("post_id", postID), slog.Any("error", err))
	}
}

// Invalidate drops the cached tally after a reaction changes it.
func (cache *TallyCache) Invalidate(context stdctx.Context, postID string) {
	if err := cache.client.Del(context, cache.key(postID)).Err(); err != nil {
		cache.logger.Warn("tally_cache_invalidate_failed", slog.String("post_id", postID), slog.Any("error", err))
	}
}
