package storage

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

const roomsCacheKey = "dekites:rooms"

// InitializeRedis connects the catalog cache. The cache is best effort: when
// REDIS_URL is unset the helpers below turn into no-ops and every catalog
// request goes straight to Postgres.
func InitializeRedis() *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Println("REDIS_URL is not set, room catalog caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[error] invalid REDIS_URL: %v", err)
		return nil
	}

	Redis = redis.NewClient(opts)
	return Redis
}

// GetCachedRooms returns the cached catalog payload, or "" on miss.
func GetCachedRooms(ctx context.Context) string {
	if Redis == nil {
		return ""
	}
	val, err := Redis.Get(ctx, roomsCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[error] rooms cache get: %v", err)
		}
		return ""
	}
	return val
}

func CacheRooms(ctx context.Context, payload string) {
	if Redis == nil {
		return
	}
	if err := Redis.Set(ctx, roomsCacheKey, payload, time.Minute).Err(); err != nil {
		log.Printf("[error] rooms cache set: %v", err)
	}
}

// InvalidateRoomsCache drops the catalog entry. Called after any mutation
// that touches room rows or stock so listings never show a stale unit count
// for longer than one request.
func InvalidateRoomsCache(ctx context.Context) {
	if Redis == nil {
		return
	}
	if err := Redis.Del(ctx, roomsCacheKey).Err(); err != nil {
		log.Printf("[error] rooms cache invalidate: %v", err)
	}
}
