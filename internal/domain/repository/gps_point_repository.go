package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tlms/telemetry/internal/domain"
)

// GpsPointRepository определяет методы для работы с GPS точками поездок
type GpsPointRepository interface {
	// InsertBatch сохраняет точки одной транзакцией и возвращает количество вставленных строк
	InsertBatch(ctx context.Context, points []domain.InsertGpsPoint) (int64, error)

	// ListByRun возвращает точки поездки, отсортированные по времени
	ListByRun(ctx context.Context, run uuid.UUID) ([]domain.GpsPoint, error)

	// DeleteByRun удаляет все точки поездки
	DeleteByRun(ctx context.Context, run uuid.UUID) (int64, error)
}
