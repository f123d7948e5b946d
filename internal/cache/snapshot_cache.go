package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
)

// SnapshotCache is a read-through Redis cache for "last N readings"
// queries. A nil *SnapshotCache is valid and caches nothing.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache connects to Redis and verifies the connection.
func NewSnapshotCache(addr, password string, ttl time.Duration) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}

	log.Info().Str("addr", addr).Msg("connected to Redis")
	return &SnapshotCache{client: client, ttl: ttl}, nil
}

func key(count int) string {
	return fmt.Sprintf("readings:last:%d", count)
}

// Get returns the cached snapshot for count, or (nil, false) on a miss.
func (c *SnapshotCache) Get(ctx context.Context, count int) ([]models.Reading, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key(count)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("redis get failed")
		}
		return nil, false
	}

	var readings []models.Reading
	if err := json.Unmarshal([]byte(raw), &readings); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable cached snapshot")
		return nil, false
	}
	return readings, true
}

// Set stores the snapshot for count with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, count int, readings []models.Reading) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(readings)
	if err != nil {
		log.Warn().Err(err).Msg("could not encode snapshot for cache")
		return
	}
	if err := c.client.Set(ctx, key(count), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("redis set failed")
	}
}

// Close releases the Redis connection. Entries expire via TTL; writes do
// not invalidate eagerly.
func (c *SnapshotCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
