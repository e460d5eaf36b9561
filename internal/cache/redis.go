package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares snapshots between instances. Each snapshot is a hash
// holding the encoded data and the time it was cached.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	codec  Codec
}

type RedisOptions struct {
	Addrs    []string
	Prefix   string
	PoolSize int
	TTL      time.Duration
	Compress bool
}

func NewRedisClient(opts RedisOptions) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.Addrs,
		PoolSize: opts.PoolSize,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})
}

func NewRedisStore(client redis.UniversalClient, opts RedisOptions) *RedisStore {
	var codec Codec = PlainCodec{}
	if opts.Compress {
		codec = ZstdCodec{}
	}

	return &RedisStore{
		client: client,
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		codec:  codec,
	}
}

func (r *RedisStore) key(tag string) string {
	return r.prefix + "snapshot:" + tag
}

func (r *RedisStore) genKey(tag string) string {
	return r.prefix + "gen:" + tag
}

func (r *RedisStore) Get(ctx context.Context, tag string) ([]byte, bool, error) {
	raw, err := r.client.HGet(ctx, r.key(tag), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", tag, err)
	}

	data, err := r.codec.Decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot %s: %w", tag, err)
	}
	return data, true, nil
}

func (r *RedisStore) Generation(ctx context.Context, tag string) (uint64, error) {
	return generation(ctx, r.client, r.genKey(tag))
}

func generation(ctx context.Context, c redis.Cmdable, key string) (uint64, error) {
	gen, err := c.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation %s: %w", key, err)
	}
	return gen, nil
}

// Set watches the generation key, so an Invalidate from any instance between
// the check and the write aborts the transaction.
func (r *RedisStore) Set(ctx context.Context, tag string, gen uint64, data []byte) (bool, error) {
	encoded, err := r.codec.Encode(data)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot %s: %w", tag, err)
	}

	key, genKey := r.key(tag), r.genKey(tag)
	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]interface{}{
				"data":      encoded,
				"cached_at": time.Now().Unix(),
			})
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		err = nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to write snapshot %s: %w", tag, err)
	}
	if !stored {
		cacheLogger.Debug().Str("tag", tag).Uint64("gen", gen).Msg("Stale snapshot discarded")
	}
	return stored, nil
}

func (r *RedisStore) Invalidate(ctx context.Context, tag string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(tag))
		pipe.Del(ctx, r.key(tag))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshot %s: %w", tag, err)
	}
	cacheLogger.Debug().Str("tag", tag).Msg("Snapshot invalidated")
	return nil
}

func (r *RedisStore) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
