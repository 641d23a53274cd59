package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// RedisClient wraps the redis client used for short-lived search caching
type RedisClient struct {
	*redis.Client
	logger logger.Logger
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(addr string, log logger.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Connected to Redis", "addr", addr)
	return &RedisClient{Client: client, logger: log}, nil
}

// Close closes the redis connection
func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}

// SetJSON stores a JSON-encoded value with expiration
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return rc.Set(ctx, key, data, expiration).Err()
}

// GetJSON loads a JSON-encoded value into dest
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := rc.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found: %s", key)
		}
		return fmt.Errorf("failed to get from redis: %w", err)
	}
	return json.Unmarshal([]byte(data), dest)
}

// Delete removes a key
func (rc *RedisClient) Delete(ctx context.Context, key string) error {
	return rc.Del(ctx, key).Err()
}

// SearchCacheKey derives a cache key from the full criteria set, so each
// distinct filter combination caches independently
func SearchCacheKey(c *entity.SearchCriteria) string {
	from, to := "", ""
	if c.DateFrom != nil {
		from = c.DateFrom.Format("2006-01-02")
	}
	if c.DateTo != nil {
		to = c.DateTo.Format("2006-01-02")
	}

	days := make([]string, len(c.DaysOfWeek))
	for i, d := range c.DaysOfWeek {
		days[i] = fmt.Sprintf("%d", int(d))
	}

	return fmt.Sprintf("booking_search:%s:%s:%s:%s:%s:%s:%s",
		strings.ToLower(c.FlightNumber),
		strings.ToLower(c.Origin),
		strings.ToLower(c.Dest),
		from, to,
		strings.Join(days, ","),
		c.Status,
	)
}
