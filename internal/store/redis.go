package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weedz/secrets/internal/domain"
)

var _ SecretStore = (*RedisStore)(nil)

// RedisStore keeps each record in a hash at secret:<lookupHash> and indexes
// expiration dates in a sorted set so DeleteExpired does not have to scan.
// A native PEXPIREAT is set on each hash as well; the lifecycle manager
// still checks expiry itself and never relies on it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a client and verifies the connection.
func NewRedisStore(opt *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

const expiryIndexKey = "secret:expiry"

func secretKey(lookupHash string) string { return "secret:" + lookupHash }

// insertScript creates the hash and its expiry index entry in one atomic
// unit, refusing to overwrite an existing record.
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "data", ARGV[1], "views_remaining", ARGV[2], "expiration_date", ARGV[3])
redis.call("PEXPIREAT", KEYS[1], tonumber(ARGV[3]))
redis.call("ZADD", KEYS[2], tonumber(ARGV[3]), KEYS[1])
return 1
`)

// decrementScript is the conditional update that makes the view budget
// race-free: the read, the positivity check and the write happen in one
// script, so each caller observes a distinct remaining value and none ever
// drives it below zero. Returns -1 when the record is gone or exhausted.
var decrementScript = redis.NewScript(`
local views = tonumber(redis.call("HGET", KEYS[1], "views_remaining"))
if views == nil or views <= 0 then
	return -1
end
views = views - 1
redis.call("HSET", KEYS[1], "views_remaining", views)
return views
`)

func (s *RedisStore) Insert(ctx context.Context, rec *domain.Record) error {
	expireAt := strconv.FormatInt(rec.ExpiresAt.UnixMilli(), 10)
	created, err := insertScript.Run(ctx, s.client,
		[]string{secretKey(rec.LookupHash), expiryIndexKey},
		rec.Ciphertext, rec.ViewsRemaining, expireAt).Int()
	if err != nil {
		return fmt.Errorf("insert secret: %w", err)
	}
	if created == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *RedisStore) Fetch(ctx context.Context, lookupHash string) (*domain.Record, error) {
	vals, err := s.client.HGetAll(ctx, secretKey(lookupHash)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch secret: %w", err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrNotFound
	}

	views, err := strconv.Atoi(vals["views_remaining"])
	if err != nil {
		return nil, fmt.Errorf("fetch secret: bad views_remaining: %w", err)
	}
	expireAt, err := strconv.ParseInt(vals["expiration_date"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("fetch secret: bad expiration_date: %w", err)
	}

	return &domain.Record{
		LookupHash:     lookupHash,
		Ciphertext:     vals["data"],
		ViewsRemaining: views,
		ExpiresAt:      time.UnixMilli(expireAt),
	}, nil
}

func (s *RedisStore) DecrementViews(ctx context.Context, lookupHash string) (int, error) {
	views, err := decrementScript.Run(ctx, s.client,
		[]string{secretKey(lookupHash)}).Int()
	if err != nil {
		return 0, fmt.Errorf("decrement views: %w", err)
	}
	if views < 0 {
		return 0, domain.ErrNotFound
	}
	return views, nil
}

func (s *RedisStore) Delete(ctx context.Context, lookupHash string) error {
	key := secretKey(lookupHash)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, expiryIndexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	max := "(" + strconv.FormatInt(now.UnixMilli(), 10)
	keys, err := s.client.ZRangeByScore(ctx, expiryIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		members := make([]any, len(keys))
		for i, k := range keys {
			members[i] = k
		}
		pipe.ZRem(ctx, expiryIndexKey, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	return len(keys), nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
