package rediscache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type RedisRoutingCacheRepository struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisRoutingCacheRepository(client *redis.Client, logger *slog.Logger) *RedisRoutingCacheRepository {
	return &RedisRoutingCacheRepository{client: client, logger: logger}
}

// DeleteKeys removes each routing key in one pipeline round trip. The
// returned counts are aligned with keys; an absent key counts as zero.
func (r *RedisRoutingCacheRepository) DeleteKeys(ctx context.Context, keys []string) ([]int64, error) {
	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Error deleting routing keys", "error", err, "keys", len(keys))
		return nil, err
	}

	counts := make([]int64, len(keys))
	for i, cmd := range cmds {
		counts[i] = cmd.Val()
	}
	r.logger.InfoContext(ctx, "Routing keys deleted", "keys", len(keys))
	return counts, nil
}
