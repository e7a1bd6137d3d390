package cache

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

// RegionCacheKey is where the region catalogue copy lives.
const RegionCacheKey = "region_cache"

type regionCacheStore struct {
	cache  repository.CacheRepository
	logger *zap.Logger
}

// NewRegionCacheStore keeps the region catalogue in redis. The entry has no TTL; freshness
// is decided from its modified timestamp like the file store.
func NewRegionCacheStore(cache repository.CacheRepository, logger *zap.Logger) repository.RegionCacheStore {
	return &regionCacheStore{
		cache:  cache,
		logger: logger,
	}
}

func (s *regionCacheStore) Read(ctx context.Context) (*domain.RegionCache, error) {
	data, err := s.cache.Get(ctx, RegionCacheKey)
	if err != nil {
		return nil, apperrors.ErrIO.Wrap(err)
	}
	if data == nil {
		return nil, apperrors.ErrCacheMiss
	}

	var cache domain.RegionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		s.logger.Error("Failed to unmarshal region cache", zap.Error(err))
		return nil, apperrors.ErrParse.Wrap(err)
	}
	if cache.Metadata == nil {
		cache.Metadata = make(map[int64]domain.Region)
	}
	return &cache, nil
}

func (s *regionCacheStore) Write(ctx context.Context, cache *domain.RegionCache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		s.logger.Error("Failed to marshal region cache", zap.Error(err))
		return apperrors.ErrParse.Wrap(err)
	}
	if err := s.cache.Set(ctx, RegionCacheKey, data, 0); err != nil {
		return apperrors.ErrIO.Wrap(err)
	}
	return nil
}
