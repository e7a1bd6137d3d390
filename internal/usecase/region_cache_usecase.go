package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

// RegionCacheUseCase serves region metadata from a local copy of the region catalogue.
type RegionCacheUseCase struct {
	catalogue  repository.RegionCatalogue
	store      repository.RegionCacheStore
	expiration time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	current *domain.RegionCache
}

func NewRegionCacheUseCase(
	catalogue repository.RegionCatalogue,
	store repository.RegionCacheStore,
	expiration time.Duration,
	logger *zap.Logger,
) *RegionCacheUseCase {
	if expiration <= 0 {
		expiration = domain.RegionCacheExpiration
	}
	return &RegionCacheUseCase{
		catalogue:  catalogue,
		store:      store,
		expiration: expiration,
		logger:     logger,
		now:        time.Now,
	}
}

// Load returns the stored copy while it is fresh. A stale copy is refreshed, and kept when
// the refresh fails. Without a usable stored copy the refresh error is returned.
func (uc *RegionCacheUseCase) Load(ctx context.Context) (*domain.RegionCache, error) {
	stored, err := uc.store.Read(ctx)
	if err != nil {
		uc.logger.Warn("Local region cache unusable, refreshing", zap.Error(err))
		return uc.Refresh(ctx)
	}

	if stored.IsFresh(uc.now(), uc.expiration) {
		uc.logger.Debug("Region cache fetched from store", zap.Time("modified", stored.Modified))
		return stored, nil
	}

	fresh, err := uc.Refresh(ctx)
	if err != nil {
		uc.logger.Warn("Failed to refresh region cache, using stale copy",
			zap.Time("modified", stored.Modified),
			zap.Error(err),
		)
		return stored, nil
	}
	return fresh, nil
}

// Refresh fetches the catalogue unconditionally. Failing to persist the copy is logged only.
func (uc *RegionCacheUseCase) Refresh(ctx context.Context) (*domain.RegionCache, error) {
	regions, err := uc.catalogue.FetchRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh region cache: %w", err)
	}

	cache := &domain.RegionCache{
		Metadata: regions,
		Modified: uc.now().UTC(),
	}

	if err := uc.store.Write(ctx, cache); err != nil {
		uc.logger.Warn("Failed to persist region cache", zap.Error(err))
	} else {
		uc.logger.Info("Region cache refreshed", zap.Int("regions", len(regions)))
	}

	return cache, nil
}

// GetRegionMetadata loads the cache on first use and keeps it for the lifetime of the use
// case.
func (uc *RegionCacheUseCase) GetRegionMetadata(ctx context.Context, regionID int64) (*domain.Region, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.current == nil {
		cache, err := uc.Load(ctx)
		if err != nil {
			return nil, err
		}
		uc.current = cache
	}

	region, ok := uc.current.Metadata[regionID]
	if !ok {
		return nil, apperrors.ErrRegionNotFound.WithDetails(map[string]interface{}{
			"region_id": regionID,
		})
	}
	return &region, nil
}
