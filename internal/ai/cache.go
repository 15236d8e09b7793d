package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// CachingService decorates a Service with an in-memory response cache.
// Only successful responses are cached; entries expire after the configured TTL.
// Expired entries are never served, and Start runs a background sweep that
// removes them until Stop.
type CachingService struct {
	next    Service
	logger  *slog.Logger
	entries *ttlcache.Cache[string, []byte]

	startOnce sync.Once
	started   chan struct{}
	stopOnce  sync.Once
}

// NewCachingService wraps next. A non-positive ttl disables caching entirely.
func NewCachingService(next Service, ttl time.Duration, logger *slog.Logger) *CachingService {
	c := &CachingService{
		next:    next,
		logger:  logger.With("component", "ai_cache"),
		started: make(chan struct{}),
	}
	if ttl > 0 {
		c.entries = ttlcache.New(
			ttlcache.WithTTL[string, []byte](ttl),
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		)
		c.entries.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, []byte]) {
			if reason == ttlcache.EvictionReasonExpired {
				c.logger.Debug("cache entry expired", "key", item.Key()[:12])
			}
		})
	}
	return c
}

var _ Service = (*CachingService)(nil)

// Summarize implements Service.
func (c *CachingService) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	return cached(c, cacheKey("summarize", content, fmt.Sprint(maxLength)), func() (string, error) {
		return c.next.Summarize(ctx, content, maxLength)
	})
}

// SuggestReplies implements Service.
func (c *CachingService) SuggestReplies(ctx context.Context, content, userContext string) ([]string, error) {
	return cached(c, cacheKey("reply", content, userContext), func() ([]string, error) {
		return c.next.SuggestReplies(ctx, content, userContext)
	})
}

// Categorize implements Service.
func (c *CachingService) Categorize(ctx context.Context, content string) (Category, error) {
	return cached(c, cacheKey("categorize", content), func() (Category, error) {
		return c.next.Categorize(ctx, content)
	})
}

// ParseSchedulingIntent implements Service.
func (c *CachingService) ParseSchedulingIntent(ctx context.Context, text string) (*SchedulingIntent, error) {
	return cached(c, cacheKey("schedule", text), func() (*SchedulingIntent, error) {
		return c.next.ParseSchedulingIntent(ctx, text)
	})
}

// CompleteText implements Service. Completions with a creativity setting are
// sampled, so they bypass the cache.
func (c *CachingService) CompleteText(ctx context.Context, prompt string, opts *CompletionContext) (string, error) {
	if opts != nil && opts.Creativity != nil {
		return c.next.CompleteText(ctx, prompt, opts)
	}
	thread, maxLength := "", 0
	if opts != nil {
		thread, maxLength = opts.EmailThread, opts.MaxLength
	}
	return cached(c, cacheKey("complete", prompt, thread, fmt.Sprint(maxLength)), func() (string, error) {
		return c.next.CompleteText(ctx, prompt, opts)
	})
}

// HitRate returns the fraction of lookups served from the cache.
func (c *CachingService) HitRate() float64 {
	if c.entries == nil {
		return 0
	}
	m := c.entries.Metrics()
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// Len returns the number of entries currently held, expired or not.
func (c *CachingService) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Start launches the expiry sweep. Calls after the first are no-ops.
func (c *CachingService) Start() {
	if c.entries == nil {
		return
	}
	c.startOnce.Do(func() {
		close(c.started)
		go c.entries.Start()
	})
}

// Stop ends the expiry sweep started by Start and logs the cache totals.
// It is safe to call without Start and more than once.
func (c *CachingService) Stop() {
	select {
	case <-c.started:
	default:
		return
	}
	c.stopOnce.Do(func() {
		c.entries.Stop()
		m := c.entries.Metrics()
		c.logger.Info("response cache stopped",
			"entries", c.entries.Len(),
			"hits", m.Hits,
			"misses", m.Misses,
			"evictions", m.Evictions)
	})
}

// cached serves fetch through the cache. Values round-trip through JSON so
// callers never share mutable results.
func cached[T any](c *CachingService, key string, fetch func() (T, error)) (T, error) {
	if c.entries == nil {
		return fetch()
	}

	if item := c.entries.Get(key); item != nil {
		var v T
		if err := json.Unmarshal(item.Value(), &v); err == nil {
			c.logger.Debug("cache hit", "key", key[:12])
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to encode response for cache", "error", err)
		return v, nil
	}
	c.entries.Set(key, raw, ttlcache.DefaultTTL)
	return v, nil
}

func cacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
