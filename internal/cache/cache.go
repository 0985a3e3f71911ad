package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
)

type Config struct {
	Addr string        `envconfig:"LINSAC_CACHE_ADDR"`
	TTL  time.Duration `envconfig:"LINSAC_CACHE_TTL" default:"1h"`
}

// New returns nil when no address is configured; a nil Cache is a
// valid always-miss cache.
func New(config *Config) *Cache {
	if config.Addr == "" {
		return nil
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: config.Addr}),
		ttl: config.TTL,
	}
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, val []byte) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

// Key digests the series and the effective search parameters, so a
// changed threshold or sample size never reuses a stale fit.
func Key(entityID string, x, y []float64, sampleSize int, threshold, probability float64) string {
	d := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for i := range x {
		writeFloat(x[i])
	}
	for i := range y {
		writeFloat(y[i])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(sampleSize))
	_, _ = d.Write(buf[:])
	writeFloat(threshold)
	writeFloat(probability)
	return fmt.Sprintf("linsac:fit:%s:%016x", entityID, d.Sum64())
}
