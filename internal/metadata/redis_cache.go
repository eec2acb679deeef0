package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"bookscout/internal/models"
)

// RedisCache fronts a Store with a Redis known-id set so the paginated
// iterator can skip already-known remote ids without a database round trip.
// Cache failures degrade to the underlying store, never to data loss.
type RedisCache struct {
	store  Store
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps store with a Redis client at addr.
func NewRedisCache(store Store, addr, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		store:  store,
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) cacheKey(websiteID int64, remoteID string) string {
	return fmt.Sprintf("%s%d:%s", c.prefix, websiteID, remoteID)
}

func (c *RedisCache) KnownRemoteID(ctx context.Context, website models.Website, remoteID string) (bool, error) {
	key := c.cacheKey(website.ID, remoteID)
	if _, err := c.client.Get(ctx, key).Result(); err == nil {
		return true, nil
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("metadata cache read failed (falling back to store): %v", err)
	}

	known, err := c.store.KnownRemoteID(ctx, website, remoteID)
	if err != nil {
		return false, err
	}
	if known {
		if err := c.client.Set(ctx, key, "1", c.ttl).Err(); err != nil {
			log.Printf("metadata cache backfill failed: %v", err)
		}
	}
	return known, nil
}

func (c *RedisCache) Save(ctx context.Context, meta models.ScrapperMetadata) error {
	if err := c.store.Save(ctx, meta); err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.cacheKey(meta.WebsiteID, meta.RemoteID), "1", c.ttl).Err(); err != nil {
		log.Printf("metadata cache write failed: %v", err)
	}
	return nil
}

func (c *RedisCache) SetStatus(ctx context.Context, website models.Website, remoteID string, status models.MetadataStatus) error {
	return c.store.SetStatus(ctx, website, remoteID, status)
}
