package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
)

// insertBatchSize keeps a single statement below the postgres bind parameter limit
// (9 columns per row).
const insertBatchSize = 1000

const insertGpsPointsQuery = `
	INSERT INTO gps_points (
		trekkie_run, timestamp, lat, lon, elevation, accuracy, vertical_accuracy, bearing, speed
	) VALUES (
		:trekkie_run, :timestamp, :lat, :lon, :elevation, :accuracy, :vertical_accuracy, :bearing, :speed
	)`

type gpsPointRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGpsPointRepository создает репозиторий GPS точек поездок
func NewGpsPointRepository(db *DB) repository.GpsPointRepository {
	return &gpsPointRepository{
		db:     db,
		logger: db.logger,
	}
}

// InsertBatch вставляет все точки в одной транзакции; id назначает postgres
func (r *gpsPointRepository) InsertBatch(ctx context.Context, points []domain.InsertGpsPoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(points); start += insertBatchSize {
			end := min(start+insertBatchSize, len(points))

			res, err := tx.NamedExecContext(ctx, insertGpsPointsQuery, points[start:end])
			if err != nil {
				r.logger.Error("Failed to insert gps points",
					zap.Int("batch_start", start),
					zap.Int("batch_size", end-start),
					zap.Error(err))
				return fmt.Errorf("insert gps points: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("GPS points inserted", zap.Int64("count", inserted))
	return inserted, nil
}

// ListByRun возвращает точки поездки по возрастанию времени
func (r *gpsPointRepository) ListByRun(ctx context.Context, run uuid.UUID) ([]domain.GpsPoint, error) {
	query := `
		SELECT id, trekkie_run, timestamp, lat, lon, elevation, accuracy, vertical_accuracy, bearing, speed
		FROM gps_points
		WHERE trekkie_run = $1
		ORDER BY timestamp ASC, id ASC
	`

	var points []domain.GpsPoint
	if err := r.db.SelectContext(ctx, &points, query, run); err != nil {
		r.logger.Error("Failed to list gps points", zap.String("trekkie_run", run.String()), zap.Error(err))
		return nil, fmt.Errorf("list gps points: %w", err)
	}

	return points, nil
}

func (r *gpsPointRepository) DeleteByRun(ctx context.Context, run uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gps_points WHERE trekkie_run = $1`, run)
	if err != nil {
		return 0, fmt.Errorf("delete gps points: %w", err)
	}
	return res.RowsAffected()
}
