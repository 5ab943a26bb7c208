package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenKey  string = "accessToken-admin-copilot"
	refreshTokenKey string = "refreshToken-admin-copilot"
)

// LimitedRedisClient is the limited set of functionality expected from the
// redis client in this repository. This allows for easy mocking and swapping
// of the client, the universal redis client interface is way too big.
type LimitedRedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository stores the token pair under fixed keys in Redis.
type RedisRepository struct {
	rdb LimitedRedisClient
}

type RedisRepositoryOption func(*RedisRepository) error

func WithRedisConfig(redisConfig config.RedisConfig) RedisRepositoryOption {
	return func(r *RedisRepository) error {
		if len(redisConfig.Addresses) == 0 {
			return fmt.Errorf("at least one redis address is required")
		}
		if redisConfig.IsSentinel {
			r.rdb = redis.NewFailoverClient(&redis.FailoverOptions{
				MasterName:       redisConfig.MasterName,
				SentinelAddrs:    redisConfig.Addresses,
				Password:         string(redisConfig.Password),
				DB:               redisConfig.DBIndex,
				SentinelPassword: string(redisConfig.Password),
			})
			return nil
		}
		r.rdb = redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addresses[0],
			Password: string(redisConfig.Password),
			DB:       redisConfig.DBIndex,
		})
		return nil
	}
}

func WithRedisClient(client LimitedRedisClient) RedisRepositoryOption {
	return func(r *RedisRepository) error {
		r.rdb = client
		return nil
	}
}

func NewRedisRepository(options ...RedisRepositoryOption) (*RedisRepository, error) {
	repo := &RedisRepository{}
	for _, opt := range options {
		if err := opt(repo); err != nil {
			return nil, err
		}
	}
	if repo.rdb == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	return repo, nil
}

func (r *RedisRepository) get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *RedisRepository) GetAccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, accessTokenKey)
}

func (r *RedisRepository) GetRefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, refreshTokenKey)
}

func (r *RedisRepository) SetTokens(ctx context.Context, accessToken string, refreshToken string) error {
	if err := r.rdb.Set(ctx, accessTokenKey, accessToken, 0).Err(); err != nil {
		return err
	}
	return r.rdb.Set(ctx, refreshTokenKey, refreshToken, 0).Err()
}

func (r *RedisRepository) ClearTokens(ctx context.Context) error {
	return r.rdb.Del(ctx, accessTokenKey, refreshTokenKey).Err()
}
