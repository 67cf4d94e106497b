package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
	"github.com/go-redis/redis"

	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long a cached taste profile stays fresh. Listening habits
// move slowly, so a day is plenty.
const DefaultTTL = 24 * time.Hour

// TasteCacheArgs are the mandatory arguments for building a TasteCache.
type TasteCacheArgs struct {
	// Client is a connected redis client.
	Client *redis.Client

	// Provider is the upstream taste provider to cache.
	Provider ports.TasteProvider
}

// TasteCacheOptArgs are the optional arguments for building a TasteCache.
type TasteCacheOptArgs = func(*TasteCache)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) TasteCacheOptArgs {
	return func(c *TasteCache) {
		c.ttl = ttl
	}
}

// NewTasteCache creates a read-through cache in front of a taste provider.
func NewTasteCache(args TasteCacheArgs, optArgs ...TasteCacheOptArgs) (*TasteCache, error) {
	if args.Client == nil {
		return nil, errors.New("redis client is nil")
	}
	if args.Provider == nil {
		return nil, errors.New("taste provider is nil")
	}
	c := &TasteCache{client: args.Client, provider: args.Provider, ttl: DefaultTTL}
	for _, opt := range optArgs {
		opt(c)
	}
	return c, nil
}

// TasteCache is a redis read-through cache implementing ports.TasteProvider.
// Cache failures degrade to the upstream provider, never to an error.
type TasteCache struct {
	client   *redis.Client
	provider ports.TasteProvider
	ttl      time.Duration
}

// FetchTaste returns the cached taste profile when present, otherwise asks the
// upstream provider and caches the answer.
func (c *TasteCache) FetchTaste(ctx context.Context, username string) (*model.TasteProfile, error) {
	key := cacheKey(username)

	cached, err := c.client.Get(key).Result()
	if err == nil {
		taste := new(model.TasteProfile)
		if err := json.Unmarshal([]byte(cached), taste); err == nil {
			return taste, nil
		}
		log.WithField("key", key).Warn("dropping unreadable cache entry")
		c.client.Del(key)
	} else if err != redis.Nil {
		log.WithError(err).Warn("taste cache read failed, falling through to provider")
	}

	taste, err := c.provider.FetchTaste(ctx, username)
	if err != nil {
		return nil, err
	}
	if taste == nil {
		return nil, nil
	}

	if data, err := json.Marshal(taste); err == nil {
		if err := c.client.Set(key, data, c.ttl).Err(); err != nil {
			log.WithError(err).Warn("taste cache write failed")
		}
	}
	return taste, nil
}

func cacheKey(username string) string {
	return fmt.Sprintf("taste:%s", username)
}
