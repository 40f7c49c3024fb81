package admission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// admitScript prunes, counts and conditionally records in one round trip.
// Scores are unix milliseconds.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', tostring(now - window))
local count = redis.call('ZCARD', key)
if count >= limit then
  return 0
end
redis.call('ZADD', key, tostring(now), ARGV[4])
redis.call('PEXPIRE', key, tostring(window))
return 1
`)

// RedisStore shares rate-limit windows between processes, one sorted set
// per client.
type RedisStore struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, limit int, window time.Duration) *RedisStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisStore{client: client, limit: limit, window: window}
}

func (s *RedisStore) Admit(ctx context.Context, key string, now time.Time) (bool, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	res, err := admitScript.Run(ctx, s.client, []string{redisKeyPrefix + key},
		nowMs, s.window.Milliseconds(), s.limit, member).Int()
	if err != nil {
		return false, fmt.Errorf("admit %s: %w", key, err)
	}
	return res == 1, nil
}

// Clients counts tracked keys with SCAN; it is meant for diagnostics only.
func (s *RedisStore) Clients() int {
	ctx := context.Background()
	n := 0
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n
}
