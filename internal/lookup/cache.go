package lookup

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"songchain/internal/logging"
	"songchain/internal/types"
)

// Cached remembers successful searches of the wrapped Searcher. Failures are
// never cached so a flaky provider gets another chance on the next turn.
type Cached struct {
	next  Searcher
	cache *expirable.LRU[string, []types.Recording]
}

func NewCached(next Searcher, size int, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: expirable.NewLRU[string, []types.Recording](size, nil, ttl),
	}
}

func (c *Cached) SearchRecordings(ctx context.Context, query, artist string) ([]types.Recording, error) {
	key := cacheKey(query, artist)
	if recs, ok := c.cache.Get(key); ok {
		logging.Debug("Lookup cache hit for %q", key)
		return slices.Clone(recs), nil
	}

	recs, err := c.next.SearchRecordings(ctx, query, artist)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, slices.Clone(recs))
	return recs, nil
}

// Len returns the number of cached searches.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func cacheKey(query, artist string) string {
	return strings.ToLower(strings.TrimSpace(query)) + "\x00" + strings.ToLower(strings.TrimSpace(artist))
}

// New builds the MusicBrainz searcher described by cfg, wrapped in a cache
// when cfg.CacheSize is positive.
func New(cfg Config) (Searcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.CacheSize <= 0 {
		return client, nil
	}
	return NewCached(client, cfg.CacheSize, cfg.CacheTTL), nil
}
