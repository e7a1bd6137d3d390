package filesystem

import (
	"context"
	"encoding/json"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

type datasetRepository struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewDatasetRepository создает репозиторий документов с локациями поверх файловой системы
func NewDatasetRepository(fs afero.Fs, logger *zap.Logger) repository.DatasetRepository {
	return &datasetRepository{
		fs:     fs,
		logger: logger,
	}
}

func (r *datasetRepository) Load(ctx context.Context, path string) (*domain.LocationDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, apperrors.ErrIO.Wrap(err)
	}

	var dataset domain.LocationDataset
	if err := json.Unmarshal(raw, &dataset); err != nil {
		r.logger.Error("Failed to decode location dataset", zap.String("path", path), zap.Error(err))
		return nil, apperrors.ErrParse.Wrap(err)
	}

	if dataset.Document.SchemaVersion != domain.SchemaVersion {
		return nil, apperrors.ErrUnsupportedSchema.WithDetails(map[string]interface{}{
			"path":           path,
			"schema_version": dataset.Document.SchemaVersion,
		})
	}

	if dataset.Data == nil {
		dataset.Data = make(map[int]domain.RegionReportLocations)
	}
	if dataset.Meta == nil {
		dataset.Meta = make(map[int]domain.RegionMetaInformation)
	}
	for region, locations := range dataset.Data {
		if locations == nil {
			dataset.Data[region] = make(domain.RegionReportLocations)
		}
	}

	r.logger.Debug("Location dataset loaded",
		zap.String("path", path),
		zap.Int("regions", len(dataset.Data)),
	)
	return &dataset, nil
}

func (r *datasetRepository) Save(ctx context.Context, path string, dataset *domain.LocationDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return apperrors.ErrParse.Wrap(err)
	}

	if err := WriteFileAtomic(r.fs, path, raw); err != nil {
		r.logger.Error("Failed to write location dataset", zap.String("path", path), zap.Error(err))
		return apperrors.ErrIO.Wrap(err)
	}

	r.logger.Debug("Location dataset saved", zap.String("path", path), zap.Int("bytes", len(raw)))
	return nil
}
