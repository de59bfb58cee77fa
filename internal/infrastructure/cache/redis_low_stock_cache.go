// Package cache guarda en Redis el indicador de productos con stock bajo o agotado.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
)

const lowStockKey = "almacen:stock:low_count"

var _ ports.LowStockCache = (*RedisLowStockCache)(nil)

// RedisLowStockCache implementa ports.LowStockCache con TTL. El valor se invalida en cada movimiento.
type RedisLowStockCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisLowStockCache abre el cliente Redis.
func NewRedisLowStockCache(addr, password string, db int, ttl time.Duration) (*RedisLowStockCache, *redis.Client) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisLowStockCacheWith(client, ttl), client
}

// NewRedisLowStockCacheWith usa un cliente existente (tests, clúster).
func NewRedisLowStockCacheWith(client redis.Cmdable, ttl time.Duration) *RedisLowStockCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLowStockCache{client: client, ttl: ttl}
}

// Ping verifica la conexión.
func (c *RedisLowStockCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisLowStockCache) GetLowStockCount(ctx context.Context) (int, bool, error) {
	val, err := c.client.Get(ctx, lowStockKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		// Valor corrupto: se trata como ausente y se recalcula
		return 0, false, nil
	}
	return n, true, nil
}

func (c *RedisLowStockCache) SetLowStockCount(ctx context.Context, count int) error {
	return c.client.Set(ctx, lowStockKey, strconv.Itoa(count), c.ttl).Err()
}

func (c *RedisLowStockCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, lowStockKey).Err()
}
