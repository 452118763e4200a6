package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xxcode2/shadowpay-sub000/backend-service/model"
)

const linkTTL = 60 * time.Second

// LinkCache is a read-through cache for link lookups. A nil LinkCache is a
// no-op, so Redis stays optional.
type LinkCache struct {
	rdb *redis.Client
}

func Connect(addr string) *LinkCache {
	if addr == "" {
		log.Println("REDIS_ADDR not set, link cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Failed to connect Redis, link cache disabled: %v", err)
		return nil
	}

	log.Println("Redis connected (backend-service)")
	return &LinkCache{rdb: rdb}
}

func linkKey(id string) string { return fmt.Sprintf("link:%s", id) }

func (c *LinkCache) GetLink(ctx context.Context, id string) (model.Link, bool) {
	if c == nil || c.rdb == nil {
		return model.Link{}, false
	}

	cached, err := c.rdb.Get(ctx, linkKey(id)).Result()
	if err != nil {
		return model.Link{}, false
	}

	var link model.Link
	if err := json.Unmarshal([]byte(cached), &link); err != nil {
		return model.Link{}, false
	}
	return link, true
}

func (c *LinkCache) SetLink(ctx context.Context, link model.Link) {
	if c == nil || c.rdb == nil {
		return
	}

	b, err := json.Marshal(link)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, linkKey(link.ID), b, linkTTL)
}

// InvalidateLink drops the cached copy after any status transition so the
// next read sees the stored row.
func (c *LinkCache) InvalidateLink(ctx context.Context, id string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, linkKey(id))
}

func (c *LinkCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
