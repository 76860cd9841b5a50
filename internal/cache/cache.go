// 包 cache：以输入内容摘要为键缓存已计算的结果表；进程内 LRU 为第一层，Redis 为第二层
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"station-proximity/internal/logger"
	"station-proximity/internal/metrics"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
)

const keyPrefix = "proximity:"

// Cache：两层都可缺省；nil *Cache 的所有操作都是空操作
// 约束：Get 返回的切片可能与其他请求共享，调用方不得修改
type Cache struct {
	lru *LRU
	rc  *redis.Client
	ttl time.Duration
}

// New：lruSize<=0 时不启用进程内缓存；ttl<=0 时使用 1 小时
func New(rc *redis.Client, lruSize int, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{lru: NewLRU(lruSize, ttl), rc: rc, ttl: ttl}
}

// Key：对站点序列（含顺序）与两个阈值做 SHA-256
// 约束：Workers 不参与，因为它不影响结果
func Key(stations []station.Station, p proximity.Params) string {
	h := sha256.New()
	var buf [8]byte
	putFloat := func(f float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	putFloat(p.Tolerance)
	putFloat(p.MaxDistanceKm)
	for _, s := range stations {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s.Name)))
		h.Write(buf[:])
		h.Write([]byte(s.Name))
		putFloat(s.Latitude)
		putFloat(s.Longitude)
		putFloat(s.Elevation)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get：未命中、反序列化失败或 Redis 出错都按未命中处理
func (c *Cache) Get(ctx context.Context, key string) ([]station.Record, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := c.lru.Get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return v, true
	}
	if c.rc == nil {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	s, err := c.rc.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.L().Warn("cache_get_error", "err", err)
		}
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	var out []station.Record
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		logger.L().Warn("cache_decode_error", "key", key, "err", err)
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	c.lru.Set(key, out)
	metrics.CacheHitsTotal.Inc()
	return out, true
}

func (c *Cache) Set(ctx context.Context, key string, records []station.Record) error {
	if c == nil {
		return nil
	}
	c.lru.Set(key, records)
	if c.rc == nil {
		return nil
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.rc.Set(ctx, key, b, c.ttl).Err()
}
