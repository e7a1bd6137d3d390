package repository

import (
	"context"

	"github.com/tlms/telemetry/internal/domain"
)

// DatasetRepository определяет методы для чтения и записи документов с локациями
type DatasetRepository interface {
	// Load читает документ; отсутствующий файл возвращает errors.ErrIO
	Load(ctx context.Context, path string) (*domain.LocationDataset, error)

	// Save атомарно заменяет документ по указанному пути
	Save(ctx context.Context, path string, dataset *domain.LocationDataset) error
}
