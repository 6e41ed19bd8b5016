package cache

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// S is the shared cache store. It stays nil when no redis address is
// configured, callers then skip caching.
var S store.StoreInterface

func NewCache() error {
	addr := viper.GetString("cache.redis_addr")
	if len(addr) == 0 {
		S = nil
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("cache.redis_password"),
		DB:       viper.GetInt("cache.redis_db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	S = redisStore.NewRedis(client, store.WithExpiration(viper.GetDuration("github.cache_ttl")))
	return nil
}
