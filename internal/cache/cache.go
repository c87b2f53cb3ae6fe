package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"talentlink_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше.
var ErrCacheMiss = errors.New("cache miss")

// Cache - тонкая обертка над Redis для кэширования ответов API.
// Допускает nil-клиент: в этом случае все операции деградируют в no-op,
// и сервис работает напрямую с базой.
type Cache struct {
	client *redis.Client
}

// New подключается к Redis. Ошибка подключения не фатальна,
// кэш просто отключается.
func New(addr, password string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, caching disabled", "addr", addr, "error", err)
		return &Cache{}
	}

	logger.Info("Redis cache connected", "addr", addr)
	return &Cache{client: client}
}

// NewWithClient используется в тестах с miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get читает значение и декодирует его в dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set сохраняет значение с TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete удаляет ключи. Используется для инвалидации после записи.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeleteByPattern удаляет все ключи по шаблону (например "jobs:*").
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
