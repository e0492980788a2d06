package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/pkg/cache"
	"github.com/Payphone-Digital/shortlink/pkg/circuit"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/Payphone-Digital/shortlink/pkg/redis"
)

// CachedLink is what the redirect path needs to know about a short code.
type CachedLink struct {
	ID      uint   `json:"id"`
	LongURL string `json:"longUrl"`
}

type LinkCache interface {
	Get(ctx context.Context, code string) (CachedLink, bool)
	Set(ctx context.Context, code string, link CachedLink)
	Delete(ctx context.Context, code string)
}

// TieredLinkCache reads and writes Redis while the breaker is closed and falls
// back to an in-process cache when Redis is disabled or failing.
type TieredLinkCache struct {
	redis   redis.Client
	breaker *circuit.Breaker
	local   *cache.Cache[CachedLink]
	ttl     time.Duration
}

func NewTieredLinkCache(client redis.Client, ttl time.Duration) *TieredLinkCache {
	cfg := circuit.DefaultConfig()
	cfg.IsFailure = func(err error) bool { return !errors.Is(err, redis.ErrCacheMiss) }

	return &TieredLinkCache{
		redis:   client,
		breaker: circuit.NewBreaker("redis-link-cache", cfg, logger.GetLogger()),
		local:   cache.NewCache[CachedLink](time.Minute),
		ttl:     ttl,
	}
}

func cacheKey(code string) string {
	return constants.CacheKeyLink + code
}

func (c *TieredLinkCache) useRedis() bool {
	return c.redis != nil && c.redis.Enabled()
}

func (c *TieredLinkCache) Get(ctx context.Context, code string) (CachedLink, bool) {
	if c.useRedis() {
		var data []byte
		err := c.breaker.Execute(func() error {
			var err error
			data, err = c.redis.Get(ctx, cacheKey(code))
			return err
		})
		switch {
		case err == nil:
			var link CachedLink
			if jsonErr := json.Unmarshal(data, &link); jsonErr == nil {
				return link, true
			}
			return CachedLink{}, false
		case errors.Is(err, redis.ErrCacheMiss):
			return CachedLink{}, false
		default:
			logger.DebugWithContext(ctx, "Redis link cache unavailable, using local cache").
				String("short_code", code).
				Err(err).
				Log()
		}
	}
	return c.local.Get(code)
}

func (c *TieredLinkCache) Set(ctx context.Context, code string, link CachedLink) {
	if c.useRedis() {
		data, err := json.Marshal(link)
		if err == nil {
			err = c.breaker.Execute(func() error {
				return c.redis.Set(ctx, cacheKey(code), data, c.ttl)
			})
		}
		if err == nil {
			return
		}
		logger.DebugWithContext(ctx, "Failed to write redis link cache").
			String("short_code", code).
			Err(err).
			Log()
	}
	c.local.Set(code, link, c.ttl)
}

func (c *TieredLinkCache) Delete(ctx context.Context, code string) {
	c.local.Delete(code)
	if !c.useRedis() {
		return
	}
	if err := c.breaker.Execute(func() error { return c.redis.Delete(ctx, cacheKey(code)) }); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate redis link cache").
			String("short_code", code).
			Err(err).
			Log()
	}
}

// Close stops the local cache janitor.
func (c *TieredLinkCache) Close() {
	c.local.Close()
}
