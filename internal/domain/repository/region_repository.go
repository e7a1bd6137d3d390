package repository

import (
	"context"

	"github.com/tlms/telemetry/internal/domain"
)

// RegionCatalogue is the authoritative source of region metadata.
type RegionCatalogue interface {
	FetchRegions(ctx context.Context) (map[int64]domain.Region, error)
}

// RegionCacheStore keeps the last fetched catalogue between runs.
type RegionCacheStore interface {
	// Read returns errors.ErrCacheMiss when no copy exists.
	Read(ctx context.Context) (*domain.RegionCache, error)
	Write(ctx context.Context, cache *domain.RegionCache) error
}
