// Package cache keeps the admin submissions list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skynix/contact-service/internal/domain"
)

const (
	// ListKey is the Redis key holding the serialized submissions list.
	ListKey = "contact:submissions:all"
	// GenerationKey counts invalidations. A list read under one generation is
	// only written back while the counter still holds that value.
	GenerationKey = "contact:submissions:gen"
)

var (
	// ErrMiss is returned by Get when nothing is cached.
	ErrMiss = errors.New("cache miss")
	// ErrStale is returned by Set when the list was invalidated after it was read.
	ErrStale = errors.New("cache generation changed")
)

// KEYS[1] list, KEYS[2] generation; ARGV[1] expected generation, ARGV[2] payload, ARGV[3] ttl in ms.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// SubmissionCache stores the full list with a TTL.
type SubmissionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSubmissionCache builds a cache. A nil client yields a cache that always misses.
func NewSubmissionCache(rdb *redis.Client, ttl time.Duration) *SubmissionCache {
	return &SubmissionCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached list together with the current generation. On
// ErrMiss the generation is still valid and should be handed to Set.
func (c *SubmissionCache) Get(ctx context.Context) ([]domain.ContactSubmission, int64, error) {
	if c == nil || c.rdb == nil {
		return nil, 0, ErrMiss
	}
	vals, err := c.rdb.MGet(ctx, ListKey, GenerationKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis MGET: %w", err)
	}
	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, ErrMiss
	}
	var list []domain.ContactSubmission
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, 0, fmt.Errorf("decode cached submissions: %w", err)
	}
	return list, gen, nil
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", GenerationKey, err)
	}
	return gen, nil
}

// Set stores the list if no Invalidate ran since gen was read, otherwise it
// returns ErrStale and leaves Redis untouched.
func (c *SubmissionCache) Set(ctx context.Context, gen int64, list []domain.ContactSubmission) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode submissions: %w", err)
	}
	stored, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{ListKey, GenerationKey},
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	if stored == 0 {
		return ErrStale
	}
	return nil
}

// Invalidate bumps the generation and drops the cached list.
func (c *SubmissionCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, ListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis INCR/DEL: %w", err)
	}
	return nil
}
