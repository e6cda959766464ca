package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FrancoTaaber/photos-api/internal/core/port"
)

// SlidingWindowConfig configures the Redis-backed attempt store.
type SlidingWindowConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// RateLimitStore persists rate-limit attempts in Redis sorted sets, scored by
// attempt timestamp. Shared across all request goroutines.
type RateLimitStore struct {
	client *redis.Client
	cfg    SlidingWindowConfig
}

// NewRateLimitStore constructs a store using the provided Redis client and config.
func NewRateLimitStore(client *redis.Client, cfg SlidingWindowConfig) *RateLimitStore {
	return &RateLimitStore{client: client, cfg: cfg}
}

// tryConsumeScript trims expired attempts, checks the allowance, and records
// the new attempt in a single server-side step. Running it as one script keeps
// the check-and-record atomic under concurrent callers; separate round trips
// would let two requests read the same count and both get admitted.
//
// KEYS[1] window key. ARGV: window start (nanos), attempt time (nanos),
// limit, TTL in milliseconds. Reply: {1} when admitted, {0, oldest} when
// denied with the oldest attempt member still inside the window.
var tryConsumeScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	local oldest = redis.call('ZRANGE', KEYS[1], 0, 0)
	return {0, oldest[1]}
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[2])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return {1}
`)

// TryConsume atomically checks the sliding-window allowance ending at the
// provided time and records the attempt when it is admitted. When denied, the
// returned time is the oldest attempt still inside the window.
func (s *RateLimitStore) TryConsume(ctx context.Context, identifier string, limit int, window time.Duration, at time.Time) (bool, time.Time, error) {
	if limit <= 0 || window <= 0 {
		return false, time.Time{}, errors.New("limit and window must be positive")
	}

	windowStart := strconv.FormatInt(at.Add(-window).UnixNano(), 10)
	attempt := strconv.FormatInt(at.UnixNano(), 10)

	reply, err := tryConsumeScript.Run(ctx, s.client, []string{s.key(identifier)},
		windowStart, attempt, limit, s.cfg.TTL.Milliseconds()).Slice()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("redis try consume: %w", err)
	}
	if len(reply) == 0 {
		return false, time.Time{}, fmt.Errorf("redis try consume: empty reply")
	}

	admitted, ok := reply[0].(int64)
	if !ok {
		return false, time.Time{}, fmt.Errorf("redis try consume: unexpected reply %v", reply)
	}
	if admitted == 1 {
		return true, time.Time{}, nil
	}

	if len(reply) < 2 {
		return false, time.Time{}, nil
	}
	member, ok := reply[1].(string)
	if !ok {
		return false, time.Time{}, nil
	}
	nanos, err := strconv.ParseInt(member, 10, 64)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("parse attempt timestamp: %w", err)
	}

	return false, time.Unix(0, nanos).UTC(), nil
}

func (s *RateLimitStore) key(identifier string) string {
	if s.cfg.KeyPrefix == "" {
		return identifier
	}
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, identifier)
}

var _ port.RateLimitStore = (*RateLimitStore)(nil)
