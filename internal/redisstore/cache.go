package redisstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultCacheTTL = 7 * 24 * time.Hour

	cachePrefix = "cv-sync:embedding:"
)

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// EmbeddingCache stores vectors under content-addressed keys as packed
// little-endian float32 values.
type EmbeddingCache struct {
	client kv
	ttl    time.Duration
}

func NewEmbeddingCache(client redis.Cmdable, ttl time.Duration) *EmbeddingCache {
	return newEmbeddingCache(client, ttl)
}

func newEmbeddingCache(client kv, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &EmbeddingCache{client: client, ttl: ttl}
}

func (c *EmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached embedding: %w", err)
	}

	vector, err := decodeVector(raw)
	if err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

func (c *EmbeddingCache) Put(ctx context.Context, key string, vector []float32) error {
	if err := c.client.Set(ctx, cachePrefix+key, encodeVector(vector), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache embedding: %w", err)
	}
	return nil
}

func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("cached embedding has %d bytes, not a multiple of 4", len(raw))
	}
	vector := make([]float32, len(raw)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vector, nil
}
