package support

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"companion-chat/internal/domain"
)

// QuoteCache guarda textos obtenidos de proveedores remotos.
type QuoteCache interface {
	Remember(ctx context.Context, kind domain.SupportKind, text string) error
	Random(ctx context.Context, kind domain.SupportKind) (string, error)
}

type redisSetClient interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	SRandMember(ctx context.Context, key string) *redis.StringCmd
}

type redisQuoteCache struct {
	client redisSetClient
	ttl    time.Duration
	prefix string
}

// NewRedisQuoteCache devuelve nil si no hay cliente; el provider sigue con la lista local.
func NewRedisQuoteCache(client *redis.Client, ttl time.Duration) QuoteCache {
	if client == nil {
		return nil
	}
	return newRedisQuoteCache(client, ttl)
}

func newRedisQuoteCache(client redisSetClient, ttl time.Duration) *redisQuoteCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisQuoteCache{client: client, ttl: ttl, prefix: "support:quotes:"}
}

func (c *redisQuoteCache) key(kind domain.SupportKind) string {
	return c.prefix + kind.String()
}

func (c *redisQuoteCache) Remember(ctx context.Context, kind domain.SupportKind, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	key := c.key(kind)
	if err := c.client.SAdd(ctx, key, text).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *redisQuoteCache) Random(ctx context.Context, kind domain.SupportKind) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	val, err := c.client.SRandMember(ctx, c.key(kind)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}
