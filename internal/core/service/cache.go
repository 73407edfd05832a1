package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/ports"
)

const (
	lookupCacheKey = "complaints:lookup"
	reportCacheKey = "complaints:report"

	defaultCacheTTL = 5 * time.Minute
)

// cacheAside returns the cached value for key, or loads and stores it.
// A nil or failing cache degrades to a direct load.
func cacheAside[T any](
	ctx context.Context,
	cache ports.Cache,
	log zerolog.Logger,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	if cache != nil {
		var hit T
		found, err := cache.Get(ctx, key, &hit)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if found {
			return hit, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, v, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}

func invalidate(ctx context.Context, cache ports.Cache, log zerolog.Logger, keys ...string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
