package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
)

// RegionMetaProvider resolves region metadata by id.
type RegionMetaProvider interface {
	GetRegionMetadata(ctx context.Context, regionID int64) (*domain.Region, error)
}

// LocationOptions controls how merged documents are written.
type LocationOptions struct {
	ProjectOnSave    bool
	Generator        string
	GeneratorVersion string
}

// LocationUseCase обрабатывает слияние документов с локациями точек
type LocationUseCase struct {
	datasets repository.DatasetRepository
	merger   *LocationMerger
	regions  RegionMetaProvider
	opts     LocationOptions
	logger   *zap.Logger
	now      func() time.Time
}

// NewLocationUseCase создает новый экземпляр LocationUseCase. regions may be nil, then
// only metadata carried by incoming documents is used.
func NewLocationUseCase(
	datasets repository.DatasetRepository,
	merger *LocationMerger,
	regions RegionMetaProvider,
	opts LocationOptions,
	logger *zap.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		datasets: datasets,
		merger:   merger,
		regions:  regions,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// MergeFiles merges the document at incomingPath into the one at basePath and writes the
// result back to basePath. A missing base document starts out empty.
func (uc *LocationUseCase) MergeFiles(ctx context.Context, basePath, incomingPath string) (domain.MergeStatistics, error) {
	// 1. Загружаем базовый документ
	base, err := uc.datasets.Load(ctx, basePath)
	if errors.Is(err, fs.ErrNotExist) {
		uc.logger.Info("Base location file not found, starting empty", zap.String("path", basePath))
		base = domain.NewLocationDataset(uc.opts.Generator, uc.opts.GeneratorVersion)
	} else if err != nil {
		return domain.MergeStatistics{}, fmt.Errorf("load base dataset: %w", err)
	}

	// 2. Загружаем входящий документ
	incoming, err := uc.datasets.Load(ctx, incomingPath)
	if err != nil {
		return domain.MergeStatistics{}, fmt.Errorf("load incoming dataset: %w", err)
	}

	// 3. Слияние
	stats := uc.merger.Merge(base, incoming)

	// 4. Метаданные регионов; ошибки не прерывают запись
	uc.populateMeta(ctx, base, incoming)

	if uc.opts.ProjectOnSave {
		base.ProjectAll()
	}

	// 5. Атомарная запись
	base.Touch(uc.opts.Generator, uc.opts.GeneratorVersion, uc.now())
	if err := uc.datasets.Save(ctx, basePath, base); err != nil {
		return stats, fmt.Errorf("save merged dataset: %w", err)
	}

	uc.logger.Info("Location datasets merged",
		zap.String("base", basePath),
		zap.String("incoming", incomingPath),
		zap.Int("created", stats.Created),
		zap.Int("refined", stats.Refined),
		zap.Int("skipped", stats.Skipped),
	)

	return stats, nil
}

// populateMeta fills metadata for regions that have locations but no metadata yet.
// Incoming metadata wins over the region catalogue.
func (uc *LocationUseCase) populateMeta(ctx context.Context, base, incoming *domain.LocationDataset) {
	if base.Meta == nil {
		base.Meta = make(map[int]domain.RegionMetaInformation)
	}

	for region := range base.Data {
		if _, ok := base.Meta[region]; ok {
			continue
		}
		if meta, ok := incoming.Meta[region]; ok {
			base.Meta[region] = meta
			continue
		}
		if uc.regions == nil {
			continue
		}

		info, err := uc.regions.GetRegionMetadata(ctx, int64(region))
		if err != nil {
			uc.logger.Warn("Region metadata unavailable",
				zap.Int("region", region),
				zap.Error(err),
			)
			continue
		}

		var centroid *domain.Epsg4326
		if lat, lon, ok := base.RegionCentroid(region); ok {
			centroid = &domain.Epsg4326{Lat: lat, Lon: lon}
		}
		base.Meta[region] = info.MetaInformation(centroid)
	}
}
