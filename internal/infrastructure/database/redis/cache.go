package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// Cache stores encoded values under a key prefix. GetOrSet collapses
// concurrent loads of the same key into one loader call and reports whether
// dest came from the cache rather than a load.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error)
	Ping(ctx context.Context) error
}

// LoadError is returned by GetOrSet when the loader itself failed, to every
// caller that shared the load.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// MsgpackSerializer is the default encoding. It honours json struct tags so
// cached DTOs keep their wire field names.
type MsgpackSerializer struct{}

func (MsgpackSerializer) Marshal(v interface{}) ([]byte, error) {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	var buf bytes.Buffer
	enc.Reset(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackSerializer) Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)
	dec.Reset(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// JSONSerializer trades size for readability in redis-cli.
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (JSONSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type redisCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	serializer   Serializer
	singleflight singleflight.Group
}

type CacheOption func(*redisCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

func WithSerializer(s Serializer) CacheOption {
	return func(c *redisCache) { c.serializer = s }
}

func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:     client,
		logger:     log,
		prefix:     "molx:",
		defaultTTL: time.Hour,
		serializer: MsgpackSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	// +/- 10%
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached value")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(c.ttlOr(ttl))).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	return c.client.Del(ctx, fullKeys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	val, err := c.client.Exists(ctx, c.fullKey(key)).Result()
	return val > 0, err
}

// GetOrSet serves dest from the cache, or runs loader once per key across
// concurrent callers and stores its result. Callers that shared a load get
// false, like the caller that ran it. Loader errors come back wrapped in a
// *LoadError and are never cached. A read failure other than a miss is
// logged and treated as a miss.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error) {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return true, nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("Cache read failed, computing", logging.String("key", key), logging.Err(err))
	}

	val, err, _ := c.singleflight.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, &LoadError{Err: loadErr}
		}
		data, mErr := c.serializer.Marshal(v)
		if mErr != nil {
			return nil, ErrSerializationFailed
		}
		if setErr := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(c.ttlOr(ttl))).Err(); setErr != nil {
			c.logger.Warn("Failed to set cache in GetOrSet", logging.Err(setErr))
		}
		return data, nil
	})
	if err != nil {
		return false, err
	}
	return false, c.serializer.Unmarshal(val.([]byte), dest)
}

func (c *redisCache) ttlOr(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return c.defaultTTL
	}
	return ttl
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending
