package videos

import (
	"context"
	"sync"
	"time"

	"github.com/vidfriends/webclient/internal/models"
)

// maxCachedDetails bounds the cache; expired entries are swept when it fills.
const maxCachedDetails = 256

type cacheEntry struct {
	details models.VideoDetails
	expires time.Time
}

// CachingProvider wraps another Provider with a TTL-based in-memory cache.
// Failed lookups are never cached.
type CachingProvider struct {
	base Provider
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	items map[int64]cacheEntry
}

// NewCachingProvider returns a Provider that caches lookups for the provided TTL.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProvider{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[int64]cacheEntry),
	}
}

// Details returns cached details when fresh, otherwise it delegates to the
// underlying provider and stores the result.
func (c *CachingProvider) Details(ctx context.Context, id int64) (models.VideoDetails, error) {
	if c == nil || c.base == nil {
		return models.VideoDetails{}, ErrProviderUnavailable
	}
	if id <= 0 {
		return models.VideoDetails{}, ErrInvalidID
	}

	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[id]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.details, nil
	}

	details, err := c.base.Details(ctx, id)
	if err != nil {
		return models.VideoDetails{}, err
	}

	c.mu.Lock()
	if len(c.items) >= maxCachedDetails {
		c.sweepLocked(now)
	}
	if len(c.items) < maxCachedDetails {
		c.items[id] = cacheEntry{details: details, expires: now.Add(c.ttl)}
	}
	c.mu.Unlock()

	return details, nil
}

// Invalidate drops every cached entry, e.g. after an upload changes the catalogue.
func (c *CachingProvider) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

func (c *CachingProvider) sweepLocked(now time.Time) {
	for id, entry := range c.items {
		if !now.Before(entry.expires) {
			delete(c.items, id)
		}
	}
}
